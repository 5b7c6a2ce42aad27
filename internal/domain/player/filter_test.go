package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterApply(t *testing.T) {
	clubs := []Club{
		{ID: 1, Name: "Arsenal", ShortName: "ARS"},
		{ID: 12, Name: "Liverpool", ShortName: "LIV"},
	}
	players := []Player{
		{ID: 1, Name: "Raya", Club: "Arsenal", Position: PositionGoalkeeper, Price: 5.5, Form: 4.2, TotalPoints: 120, ValueForm: 0.8},
		{ID: 2, Name: "Saka", Club: "Arsenal", Position: PositionMidfielder, Price: 10.0, Form: 7.1, TotalPoints: 180, ValueForm: 0.7},
		{ID: 3, Name: "Salah", Club: "Liverpool", Position: PositionMidfielder, Price: 13.0, Form: 9.0, TotalPoints: 240, ValueForm: 0.7},
		{ID: 4, Name: "Gakpo", Club: "Liverpool", Position: PositionForward, Price: 7.5, Form: 5.0, TotalPoints: 110, ValueForm: 0.9},
	}

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []int64
	}{
		{name: "default sorts by form", filter: Filter{}, wantIDs: []int64{3, 2, 4, 1}},
		{name: "position", filter: Filter{Position: PositionMidfielder}, wantIDs: []int64{3, 2}},
		{name: "club by short name", filter: Filter{Club: "liv", SortBy: SortByPoints}, wantIDs: []int64{3, 4}},
		{name: "unknown club ignored", filter: Filter{Club: "wrexham", SortBy: SortByPrice}, wantIDs: []int64{1, 4, 2, 3}},
		{name: "price band", filter: Filter{MinPrice: 6, MaxPrice: 12}, wantIDs: []int64{2, 4}},
		{name: "value keeps ties stable", filter: Filter{SortBy: SortByValue}, wantIDs: []int64{4, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(players, clubs)
			ids := make([]int64, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestParsePositionAndSortKey(t *testing.T) {
	pos, err := ParsePosition(" mid ")
	require.NoError(t, err)
	assert.Equal(t, PositionMidfielder, pos)

	_, err = ParsePosition("WB")
	assert.Error(t, err)

	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByForm, key)

	_, err = ParseSortKey("ownership")
	assert.Error(t, err)
}
