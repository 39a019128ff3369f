package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nicoavayu/Armado-Equipos-sub001/controller"
	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/nicoavayu/Armado-Equipos-sub001/realtime"
	"github.com/unrolled/render"
)

func rootHandler(_ controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Text(w, http.StatusOK, "match rating service")
	}
}

func matchID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
}

func renderErr(render *render.Render, w http.ResponseWriter, status int, err error) {
	render.JSON(w, status, map[string]string{"error": err.Error()})
}

func getMatchHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		m, err := ctrl.GetMatch(r.Context(), id)
		if err != nil {
			if errors.Is(err, db.ErrMatchNotFound) {
				renderErr(render, w, http.StatusNotFound, err)
			} else {
				renderErr(render, w, http.StatusInternalServerError, err)
			}
			return
		}

		render.JSON(w, http.StatusOK, m)
	}
}

func createMatchHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ScheduledAt time.Time `json:"scheduledAt"`
			Venue       string    `json:"venue"`
			Capacity    int       `json:"capacity"`
			CreatedBy   string    `json:"createdBy"`
			Mode        string    `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderErr(render, w, http.StatusBadRequest, fmt.Errorf("error parsing match: %w", err))
			return
		}

		m := &model.Match{
			ScheduledAt: req.ScheduledAt,
			Venue:       req.Venue,
			Capacity:    req.Capacity,
			CreatedBy:   req.CreatedBy,
			Mode:        req.Mode,
		}
		if err := ctrl.CreateMatch(r.Context(), m); err != nil {
			if errors.Is(err, controller.ErrInvalidMatch) {
				renderErr(render, w, http.StatusBadRequest, err)
			} else {
				renderErr(render, w, http.StatusInternalServerError, err)
			}
			return
		}

		render.JSON(w, http.StatusCreated, m)
	}
}

func joinMatchHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		var req struct {
			UUID        string `json:"uuid"`
			AccountID   string `json:"accountId"`
			DisplayName string `json:"displayName"`
			AvatarURL   string `json:"avatarUrl"`
			Goalkeeper  bool   `json:"goalkeeper"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderErr(render, w, http.StatusBadRequest, fmt.Errorf("error parsing participant: %w", err))
			return
		}

		p := &model.Participant{
			UUID:        req.UUID,
			AccountID:   req.AccountID,
			DisplayName: req.DisplayName,
			AvatarURL:   req.AvatarURL,
			Goalkeeper:  req.Goalkeeper,
		}

		err = ctrl.JoinMatch(r.Context(), id, p)
		switch {
		case err == nil:
			render.JSON(w, http.StatusCreated, p)
		case errors.Is(err, db.ErrMatchNotFound):
			renderErr(render, w, http.StatusNotFound, err)
		case errors.Is(err, controller.ErrMatchFull),
			errors.Is(err, controller.ErrMatchNotJoinable):
			renderErr(render, w, http.StatusConflict, err)
		default:
			renderErr(render, w, http.StatusInternalServerError, err)
		}
	}
}

func getRosterHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		roster, err := ctrl.GetRoster(r.Context(), id)
		if err != nil {
			renderErr(render, w, http.StatusInternalServerError, err)
			return
		}

		render.JSON(w, http.StatusOK, roster)
	}
}

// getResultHandler returns the stored result row. Winners stay hidden until
// the reveal moment has passed; before that the response only carries the
// reveal timestamp so clients can count down.
func getResultHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		res, err := ctrl.GetResult(r.Context(), id)
		if err != nil {
			if errors.Is(err, db.ErrResultNotFound) {
				renderErr(render, w, http.StatusNotFound, err)
			} else {
				renderErr(render, w, http.StatusInternalServerError, err)
			}
			return
		}

		if !res.Ready {
			render.JSON(w, http.StatusOK, map[string]any{
				"matchId":  res.MatchID,
				"ready":    false,
				"revealAt": res.RevealAt,
			})
			return
		}

		render.JSON(w, http.StatusOK, map[string]any{
			"matchId":  res.MatchID,
			"ready":    true,
			"revealAt": res.RevealAt,
			"awards":   res.Awards(),
		})
	}
}

func submitBallotsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		var req struct {
			VoterRef string              `json:"voterRef"`
			Entries  []model.BallotEntry `json:"entries"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderErr(render, w, http.StatusBadRequest, fmt.Errorf("error parsing ballot set: %w", err))
			return
		}

		err = ctrl.SubmitBallotSet(r.Context(), id, req.VoterRef, req.Entries)
		switch {
		case err == nil:
			render.JSON(w, http.StatusCreated, map[string]string{"status": "accepted"})
		case errors.Is(err, db.ErrDuplicateBallot):
			renderErr(render, w, http.StatusConflict, err)
		case errors.Is(err, controller.ErrEmptyVoter),
			errors.Is(err, controller.ErrInvalidMatch),
			errors.Is(err, controller.ErrEmptyBallotSet):
			renderErr(render, w, http.StatusBadRequest, err)
		default:
			renderErr(render, w, http.StatusInternalServerError, err)
		}
	}
}

func submitSurveyHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		var req struct {
			VoterRef   string   `json:"voterRef"`
			BestSideA  string   `json:"bestSideA"`
			BestSideB  string   `json:"bestSideB"`
			DirtyRefs  []string `json:"dirtyRefs"`
			AbsentRefs []string `json:"absentRefs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderErr(render, w, http.StatusBadRequest, fmt.Errorf("error parsing survey: %w", err))
			return
		}

		s := &model.OutcomeSurvey{
			MatchID:    id,
			VoterRef:   req.VoterRef,
			BestSideA:  req.BestSideA,
			BestSideB:  req.BestSideB,
			DirtyRefs:  req.DirtyRefs,
			AbsentRefs: req.AbsentRefs,
		}

		err = ctrl.SubmitSurvey(r.Context(), s)
		switch {
		case err == nil:
			render.JSON(w, http.StatusCreated, map[string]string{"status": "accepted"})
		case errors.Is(err, db.ErrDuplicateSurvey):
			renderErr(render, w, http.StatusConflict, err)
		case errors.Is(err, controller.ErrEmptyVoter),
			errors.Is(err, controller.ErrInvalidMatch),
			errors.Is(err, controller.ErrEmptyBallotSet):
			renderErr(render, w, http.StatusBadRequest, err)
		default:
			renderErr(render, w, http.StatusInternalServerError, err)
		}
	}
}

func surveyStatusHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		complete, err := ctrl.SurveyComplete(r.Context(), id)
		if err != nil {
			renderErr(render, w, http.StatusInternalServerError, err)
			return
		}

		render.JSON(w, http.StatusOK, map[string]bool{"complete": complete})
	}
}

func recordAbsenceHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		var req struct {
			ParticipantRef   string `json:"participantRef"`
			Reason           string `json:"reason"`
			FoundReplacement bool   `json:"foundReplacement"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderErr(render, w, http.StatusBadRequest, fmt.Errorf("error parsing absence notice: %w", err))
			return
		}
		if req.ParticipantRef == "" {
			renderErr(render, w, http.StatusBadRequest, controller.ErrEmptyVoter)
			return
		}

		record, err := ctrl.RecordAbsenceNotice(r.Context(), id, req.ParticipantRef, req.Reason, req.FoundReplacement)
		if err != nil {
			if errors.Is(err, db.ErrMatchNotFound) {
				renderErr(render, w, http.StatusNotFound, err)
			} else {
				renderErr(render, w, http.StatusInternalServerError, err)
			}
			return
		}

		render.JSON(w, http.StatusCreated, record)
	}
}

// eventsHandler streams match events as newline-delimited JSON until the
// client goes away.
func eventsHandler(events *realtime.Manager, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			renderErr(render, w, http.StatusInternalServerError, errors.New("streaming not supported"))
			return
		}

		sub := events.Subscribe(id)
		if sub == nil {
			renderErr(render, w, http.StatusServiceUnavailable, errors.New("event stream is shut down"))
			return
		}
		defer sub.Close()

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		enc := json.NewEncoder(w)
		for {
			select {
			case <-r.Context().Done():
				return
			case e, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := enc.Encode(e); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func closeRatingsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		summary, err := ctrl.CloseRatings(r.Context(), id)
		switch {
		case err == nil:
			render.JSON(w, http.StatusOK, summary)
		case errors.Is(err, db.ErrMatchNotFound):
			renderErr(render, w, http.StatusNotFound, err)
		case errors.Is(err, controller.ErrNoSuccessfulUpdates):
			renderErr(render, w, http.StatusConflict, err)
		default:
			renderErr(render, w, http.StatusInternalServerError, err)
		}
	}
}

func finalizeOutcomeHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		res, err := ctrl.FinalizeOutcome(r.Context(), id)
		switch {
		case err == nil:
			render.JSON(w, http.StatusOK, res)
		case errors.Is(err, controller.ErrSurveysIncomplete):
			renderErr(render, w, http.StatusConflict, err)
		case errors.Is(err, db.ErrMatchNotFound):
			renderErr(render, w, http.StatusNotFound, err)
		default:
			renderErr(render, w, http.StatusInternalServerError, err)
		}
	}
}

func snapshotRosterHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		if err := ctrl.SnapshotRoster(r.Context(), id); err != nil {
			renderErr(render, w, http.StatusInternalServerError, err)
			return
		}

		render.JSON(w, http.StatusOK, map[string]string{"status": "frozen"})
	}
}

func snapshotOutcomeHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		reason := r.URL.Query().Get("reason")
		if reason == "" {
			reason = "manual"
		}

		if err := ctrl.SnapshotOutcome(r.Context(), id, reason); err != nil {
			renderErr(render, w, http.StatusInternalServerError, err)
			return
		}

		render.JSON(w, http.StatusOK, map[string]string{"status": "frozen"})
	}
}

func evaluateAbsencesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := matchID(r)
		if err != nil {
			renderErr(render, w, http.StatusBadRequest, err)
			return
		}

		assessments, err := ctrl.EvaluateAbsences(r.Context(), id)
		if err != nil {
			renderErr(render, w, http.StatusInternalServerError, err)
			return
		}

		render.JSON(w, http.StatusOK, assessments)
	}
}
