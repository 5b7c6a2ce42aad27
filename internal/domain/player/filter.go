package player

import (
	"fmt"
	"sort"
	"strings"
)

type SortKey string

const (
	SortByForm   SortKey = "form"
	SortByPoints SortKey = "points"
	SortByValue  SortKey = "value"
	SortByPrice  SortKey = "price"
)

func ParseSortKey(v string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(v)))
	switch key {
	case "":
		return SortByForm, nil
	case SortByForm, SortByPoints, SortByValue, SortByPrice:
		return key, nil
	default:
		return "", fmt.Errorf("unknown sort key: %q", v)
	}
}

// Filter narrows and orders a player pool. Zero values mean "no constraint".
type Filter struct {
	Position Position
	Club     string
	MinPrice float64
	MaxPrice float64
	SortBy   SortKey
}

// Apply returns a filtered, sorted copy of players. The club constraint matches
// a club's name or short name case-insensitively; when no club matches, the
// constraint is ignored.
func (f Filter) Apply(players []Player, clubs []Club) []Player {
	clubName := ""
	if needle := strings.ToLower(strings.TrimSpace(f.Club)); needle != "" {
		for _, c := range clubs {
			if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.ShortName), needle) {
				clubName = c.Name
				break
			}
		}
	}

	out := make([]Player, 0, len(players))
	for _, p := range players {
		if f.Position != "" && p.Position != f.Position {
			continue
		}
		if clubName != "" && p.Club != clubName {
			continue
		}
		if f.MinPrice > 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	sortKey := f.SortBy
	if sortKey == "" {
		sortKey = SortByForm
	}
	sort.SliceStable(out, func(i, j int) bool {
		switch sortKey {
		case SortByPoints:
			return out[i].TotalPoints > out[j].TotalPoints
		case SortByValue:
			return out[i].ValueForm > out[j].ValueForm
		case SortByPrice:
			return out[i].Price < out[j].Price
		default:
			return out[i].Form > out[j].Form
		}
	})

	return out
}
