package fpl

import (
	"testing"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
)

func TestMapElementDropsInvalidRecords(t *testing.T) {
	clubs := map[int64]player.Club{1: {ID: 1, Name: "Arsenal", ShortName: "ARS"}}

	tests := []struct {
		name   string
		in     elementDTO
		wantOK bool
	}{
		{name: "valid", in: elementDTO{ID: 7, WebName: "Saka", Team: 1, ElementType: 3, NowCost: 100}, wantOK: true},
		{name: "negative form kept", in: elementDTO{ID: 8, WebName: "Odegaard", Team: 1, ElementType: 3, NowCost: 85, Form: "-0.5", TotalPoints: -1}, wantOK: true},
		{name: "manager element", in: elementDTO{ID: 900, WebName: "Arteta", Team: 1, ElementType: 5, NowCost: 15}},
		{name: "zero id", in: elementDTO{ID: 0, WebName: "Ghost", Team: 1, ElementType: 2, NowCost: 40}},
		{name: "no name", in: elementDTO{ID: 11, Team: 1, ElementType: 4, NowCost: 60}},
		{name: "negative price", in: elementDTO{ID: 12, WebName: "Broken", Team: 1, ElementType: 1, NowCost: -5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := mapElement(tc.in, clubs)
			if ok != tc.wantOK {
				t.Fatalf("mapElement ok=%v, want %v (player %+v)", ok, tc.wantOK, p)
			}
			if ok && p.ID != tc.in.ID {
				t.Fatalf("unexpected player id %d", p.ID)
			}
		})
	}
}
