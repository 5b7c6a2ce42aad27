package fpl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/resilience"
	"github.com/riskibarqy/fpl-team-builder/internal/usecase"
)

const bootstrapFixture = `{
  "events": [
    {"id": 1, "is_current": false, "is_previous": true, "finished": true},
    {"id": 2, "is_current": true, "is_next": false},
    {"id": 3, "is_next": true}
  ],
  "teams": [
    {"id": 12, "name": "Liverpool", "short_name": "LIV", "strength": 5},
    {"id": 1, "name": "Arsenal", "short_name": "ARS", "strength": 5}
  ],
  "elements": [
    {"id": 7, "web_name": "Saka", "team": 1, "element_type": 3, "now_cost": 100, "form": "7.1", "total_points": 180, "value_form": "0.7"},
    {"id": 9, "web_name": "", "first_name": "Mohamed", "second_name": "Salah", "team": 12, "element_type": 3, "now_cost": 135, "form": "9.0", "total_points": 240, "value_form": "0.7"},
    {"id": 3, "web_name": "Raya", "team": 1, "element_type": 1, "now_cost": 55, "form": "", "total_points": 120, "value_form": "bad"},
    {"id": 900, "web_name": "Arteta", "team": 1, "element_type": 5, "now_cost": 15}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		Timeout:        2 * time.Second,
		MaxRetries:     2,
		RetryBaseDelay: time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute},
	})
	return client, &hits
}

func TestListPlayersMapsBootstrap(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != bootstrapPath {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(bootstrapFixture))
	})

	players, err := client.ListPlayers(context.Background())
	if err != nil {
		t.Fatalf("ListPlayers error: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("expected 3 players without managers, got %d", len(players))
	}

	saka := players[0]
	if saka.Name != "Saka" || saka.Club != "Arsenal" || saka.Position != player.PositionMidfielder {
		t.Fatalf("unexpected mapping: %+v", saka)
	}
	if saka.Price != 10.0 || saka.Form != 7.1 || saka.ValueForm != 0.7 {
		t.Fatalf("unexpected numbers: %+v", saka)
	}
	if players[1].Name != "Mohamed Salah" || players[1].Price != 13.5 {
		t.Fatalf("unexpected fallback name or price: %+v", players[1])
	}
	if players[2].Position != player.PositionGoalkeeper || players[2].Price != 5.5 || players[2].Form != 0 || players[2].ValueForm != 0 {
		t.Fatalf("unexpected goalkeeper mapping: %+v", players[2])
	}
}

func TestBootstrapIsCachedAcrossReads(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bootstrapFixture))
	})
	ctx := context.Background()

	if _, err := client.ListPlayers(ctx); err != nil {
		t.Fatalf("ListPlayers error: %v", err)
	}
	clubs, err := client.ListClubs(ctx)
	if err != nil {
		t.Fatalf("ListClubs error: %v", err)
	}
	gw, err := client.CurrentGameweek(ctx)
	if err != nil {
		t.Fatalf("CurrentGameweek error: %v", err)
	}

	if hits.Load() != 1 {
		t.Fatalf("expected one upstream request, got %d", hits.Load())
	}
	if gw != 2 {
		t.Fatalf("expected current gameweek 2, got %d", gw)
	}
	if len(clubs) != 2 || clubs[0].ShortName != "ARS" || clubs[1].ShortName != "LIV" {
		t.Fatalf("expected clubs ordered by id, got %+v", clubs)
	}

	client.Invalidate(ctx, "")
	if _, err := client.ListClubs(ctx); err != nil {
		t.Fatalf("ListClubs after invalidate error: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected refetch after invalidate, got %d requests", hits.Load())
	}
}

func TestServesStalePayloadWhenRefetchFails(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) > 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(bootstrapFixture))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		Timeout:        2 * time.Second,
		CacheTTL:       time.Minute,
		StaleTTL:       time.Hour,
		RetryBaseDelay: time.Millisecond,
		Logger:         logging.NewNop(),
	})
	ctx := context.Background()

	if _, err := client.ListClubs(ctx); err != nil {
		t.Fatalf("ListClubs error: %v", err)
	}
	client.Invalidate(ctx, "")

	clubs, err := client.ListClubs(ctx)
	if err != nil {
		t.Fatalf("expected stale payload, got error: %v", err)
	}
	if len(clubs) != 2 {
		t.Fatalf("unexpected clubs from stale payload: %+v", clubs)
	}
	if hits.Load() < 2 {
		t.Fatalf("expected a refetch attempt, got %d requests", hits.Load())
	}
}

func TestGetByIDsKeepsRequestOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bootstrapFixture))
	})

	got, err := client.GetByIDs(context.Background(), []int64{3, 404, 7})
	if err != nil {
		t.Fatalf("GetByIDs error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 7 {
		t.Fatalf("unexpected players: %+v", got)
	}
}

func TestRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"elements":[{"id":7,"stats":{"minutes":90,"goals_scored":1,"assists":1,"bonus":3,"total_points":13}}]}`))
	})

	stats, err := client.ListLiveStats(context.Background(), 4)
	if err != nil {
		t.Fatalf("ListLiveStats error: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", hits.Load())
	}
	if len(stats) != 1 || stats[0].PlayerID != 7 || stats[0].Points != 13 || stats[0].Bonus != 3 {
		t.Fatalf("unexpected live stats: %+v", stats)
	}
}

func TestDoesNotRetryClientError(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.ListAppearances(context.Background(), 99999)
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, resilience.ErrRetryable) {
		t.Fatalf("404 should not be retryable: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", hits.Load())
	}
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.ListFixtures(ctx); err == nil {
			t.Fatalf("expected failure on call %d", i)
		}
	}
	before := hits.Load()

	_, err := client.ListFixtures(ctx)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if hits.Load() != before {
		t.Fatalf("open circuit should not reach upstream")
	}
}

func TestListFixturesMapsAndOrders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
		  {"id": 12, "event": 2, "team_h": 1, "team_a": 12, "kickoff_time": "2025-08-23T14:00:00Z", "team_h_difficulty": 4, "team_a_difficulty": 4, "started": false, "finished": false},
		  {"id": 3, "event": 1, "team_h": 12, "team_a": 1, "team_h_score": 2, "team_a_score": 1, "kickoff_time": "2025-08-16T11:30:00Z", "started": true, "finished": true},
		  {"id": 40, "event": null, "team_h": 1, "team_a": 7, "kickoff_time": null}
		]`))
	})

	got, err := client.ListFixtures(context.Background())
	if err != nil {
		t.Fatalf("ListFixtures error: %v", err)
	}
	if len(got) != 3 || got[0].ID != 40 || got[1].ID != 3 || got[2].ID != 12 {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].KickoffAt != nil || got[0].Gameweek != 0 {
		t.Fatalf("unscheduled fixture should have no kickoff: %+v", got[0])
	}
	played := got[1]
	if !played.Finished || !played.Started || played.HomeScore == nil || *played.HomeScore != 2 {
		t.Fatalf("unexpected finished fixture: %+v", played)
	}
	if got[2].KickoffAt == nil || got[2].KickoffAt.Day() != 23 || got[2].HomeDifficulty != 4 {
		t.Fatalf("unexpected upcoming fixture: %+v", got[2])
	}
}

func TestCurrentGameweekDefaultsToOne(t *testing.T) {
	if got := currentGameweek([]eventDTO{{ID: 1, IsNext: true}, {ID: 2}}); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestListAppearancesMapsHistory(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/element-summary/7/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"history":[{"round":1,"opponent_team":12,"was_home":true,"minutes":90,"goals_scored":1,"assists":0,"clean_sheets":1,"bonus":2,"total_points":10,"value":100}],"fixtures":[]}`))
	})

	got, err := client.ListAppearances(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListAppearances error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one appearance, got %d", len(got))
	}
	if a := got[0]; a.Gameweek != 1 || a.OpponentClubID != 12 || !a.WasHome || a.Points != 10 || a.Price != 10.0 {
		t.Fatalf("unexpected appearance: %+v", a)
	}
}
