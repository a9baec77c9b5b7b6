package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rumormill/internal/domain"
	"github.com/pscheid92/rumormill/internal/sim"
)

// --- Mocks ---

type mockSimulation struct {
	rumors   []domain.Rumor
	observed []string
	create   bool
	stats    sim.Stats
}

func (m *mockSimulation) Observe(text string) (domain.Rumor, bool) {
	m.observed = append(m.observed, text)
	if !m.create {
		return domain.Rumor{}, false
	}
	r := domain.Rumor{ID: "new", Text: text, KnownBy: []string{"mira"}, Status: domain.StatusActive}
	m.rumors = append(m.rumors, r)
	return r, true
}

func (m *mockSimulation) Snapshot(knownBy ...string) []domain.Rumor {
	if len(knownBy) == 0 {
		return m.rumors
	}
	var out []domain.Rumor
	for _, r := range m.rumors {
		for _, c := range knownBy {
			if r.Knows(c) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func (m *mockSimulation) Rumor(id string) (domain.Rumor, bool) {
	for _, r := range m.rumors {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Rumor{}, false
}

func (m *mockSimulation) Verify(id string) (domain.Rumor, bool) {
	for i := range m.rumors {
		if m.rumors[i].ID == id {
			m.rumors[i].Verified = true
			return m.rumors[i], true
		}
	}
	return domain.Rumor{}, false
}

func (m *mockSimulation) Stats() sim.Stats {
	return m.stats
}

// --- Helpers ---

func newTestServer(t *testing.T, simulation *mockSimulation) (*Server, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	return NewServer("0", simulation, 1, clock), clock
}

func doRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}
