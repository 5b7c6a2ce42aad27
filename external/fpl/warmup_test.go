package fpl

import (
	"context"
	"net/http"
	"testing"

	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
)

func TestWarmerRefreshRefetchesSharedPayloads(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case bootstrapPath:
			_, _ = w.Write([]byte(bootstrapFixture))
		case fixturesPath:
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	})

	warmer, err := NewWarmer(client, "@every 1h", logging.NewNop())
	if err != nil {
		t.Fatalf("NewWarmer error: %v", err)
	}

	ctx := context.Background()
	if err := warmer.Refresh(ctx); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if err := warmer.Refresh(ctx); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if hits.Load() != 4 {
		t.Fatalf("expected each refresh to refetch both payloads, got %d requests", hits.Load())
	}

	if _, err := client.ListPlayers(ctx); err != nil {
		t.Fatalf("ListPlayers error: %v", err)
	}
	if hits.Load() != 4 {
		t.Fatalf("expected warmed cache to serve reads, got %d requests", hits.Load())
	}
}

func TestNewWarmerRejectsBadSchedule(t *testing.T) {
	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := NewWarmer(client, "not a schedule", nil); err == nil {
		t.Fatalf("expected schedule parse error")
	}
}
