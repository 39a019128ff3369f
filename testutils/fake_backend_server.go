package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// FakeBackendServer stands in for the hosted backend's function endpoints.
// Endpoints answer 404 until they are armed, which mirrors a deployment where
// the procedure is missing and clients must fall back.
type FakeBackendServer struct {
	s *httptest.Server

	mu             sync.Mutex
	awards         *model.AwardSummary
	fanoutEnabled  bool
	fanoutRequests int
}

func NewFakeBackendServer() *FakeBackendServer {
	f := &FakeBackendServer{}

	r := chi.NewRouter()
	r.Route("/functions", func(r chi.Router) {
		r.Post("/compute-awards", f.computeAwardsHandler)
		r.Post("/enqueue-fanout", f.enqueueFanoutHandler)
	})
	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeBackendServer) Close() {
	f.s.Close()
}

func (f *FakeBackendServer) URL() string {
	return f.s.URL
}

// ServeAwards arms the compute-awards endpoint with a canned response.
func (f *FakeBackendServer) ServeAwards(a *model.AwardSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.awards = a
}

// EnableFanout arms the enqueue-fanout endpoint.
func (f *FakeBackendServer) EnableFanout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fanoutEnabled = true
}

// FanoutRequests reports how many fan-out enqueues were accepted.
func (f *FakeBackendServer) FanoutRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fanoutRequests
}

func (f *FakeBackendServer) computeAwardsHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	awards := f.awards
	f.mu.Unlock()

	if awards == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(awards)
}

func (f *FakeBackendServer) enqueueFanoutHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.fanoutEnabled {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	f.fanoutRequests++
	w.WriteHeader(http.StatusOK)
}
