// Package backend calls the hosted backend's named remote procedures. A
// deployment may be missing either procedure, in which case callers fall back
// to computing the same thing client-side.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// ErrNotAvailable means the named procedure does not exist in this
// deployment. Treated as "try the next fallback", never surfaced to users.
var ErrNotAvailable = errors.New("remote procedure not available")

type Client interface {
	// ComputeAwards asks the backend to run the award consensus for a match.
	ComputeAwards(ctx context.Context, matchID int64) (*model.AwardSummary, error)
	// EnqueueFanout asks the backend to enqueue a batched notification fan-out.
	EnqueueFanout(ctx context.Context, req *FanoutRequest) error
}

type FanoutRequest struct {
	MatchID       int64                  `json:"matchId"`
	Type          model.NotificationType `json:"type"`
	Payload       json.RawMessage        `json:"payload,omitempty"`
	ExcludeRef    string                 `json:"excludeRef,omitempty"`
	IncludeRoster bool                   `json:"includeRoster"`
}

type client struct {
	url        string
	httpClient *http.Client
}

func New(url string) (Client, error) {
	if url == "" {
		return nil, errors.New("backend url is required")
	}
	c := &client{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	return c, nil
}

func (c *client) ComputeAwards(ctx context.Context, matchID int64) (*model.AwardSummary, error) {
	body := map[string]int64{"matchId": matchID}

	var summary model.AwardSummary
	if err := c.call(ctx, "compute-awards", body, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *client) EnqueueFanout(ctx context.Context, req *FanoutRequest) error {
	return c.call(ctx, "enqueue-fanout", req, nil)
}

func (c *client) call(ctx context.Context, proc string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error encoding %s request: %w", proc, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/functions/%s", c.url, proc), bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("error creating http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling %s: %w", proc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotAvailable
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code from %s: %d", proc, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error parsing %s response: %w", proc, err)
		}
	}
	return nil
}
