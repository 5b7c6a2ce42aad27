package redis

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
)

// documentJSON keeps stored documents byte-compatible with encoding/json.
var documentJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type playerDocument struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Club        string  `json:"club"`
	Position    string  `json:"position"`
	Price       float64 `json:"price"`
	Form        float64 `json:"form"`
	TotalPoints int     `json:"total_points"`
	ValueForm   float64 `json:"value_form,omitempty"`
}

type rosterDocument struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Budget         float64          `json:"budget"`
	Players        []playerDocument `json:"players"`
	Captain        playerDocument   `json:"captain"`
	ViceCaptain    playerDocument   `json:"vice_captain"`
	Formation      string           `json:"formation"`
	Bench          []playerDocument `json:"bench,omitempty"`
	ExpectedPoints float64          `json:"expected_points"`
	Reasoning      string           `json:"reasoning,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func toPlayerDocument(p player.Player) playerDocument {
	return playerDocument{
		ID:          p.ID,
		Name:        p.Name,
		Club:        p.Club,
		Position:    string(p.Position),
		Price:       p.Price,
		Form:        p.Form,
		TotalPoints: p.TotalPoints,
		ValueForm:   p.ValueForm,
	}
}

func (d playerDocument) toDomain() (player.Player, error) {
	p := player.Player{
		ID:          d.ID,
		Name:        d.Name,
		Club:        d.Club,
		Position:    player.Position(d.Position),
		Price:       d.Price,
		Form:        d.Form,
		TotalPoints: d.TotalPoints,
		ValueForm:   d.ValueForm,
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("player %d: %w", d.ID, err)
	}
	return p, nil
}

// toOptionalDomain keeps a zero document as the zero Player (unset captain).
func (d playerDocument) toOptionalDomain() (player.Player, error) {
	if d == (playerDocument{}) {
		return player.Player{}, nil
	}
	return d.toDomain()
}

func toPlayerDocuments(items []player.Player) []playerDocument {
	if len(items) == 0 {
		return nil
	}
	out := make([]playerDocument, 0, len(items))
	for _, p := range items {
		out = append(out, toPlayerDocument(p))
	}
	return out
}

func fromPlayerDocuments(items []playerDocument) ([]player.Player, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]player.Player, 0, len(items))
	for _, d := range items {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func toRosterDocument(item roster.Roster) rosterDocument {
	return rosterDocument{
		ID:             item.ID,
		Name:           item.Name,
		Budget:         item.Budget,
		Players:        toPlayerDocuments(item.Players),
		Captain:        toPlayerDocument(item.Captain),
		ViceCaptain:    toPlayerDocument(item.ViceCaptain),
		Formation:      item.Formation,
		Bench:          toPlayerDocuments(item.Bench),
		ExpectedPoints: item.ExpectedPoints,
		Reasoning:      item.Reasoning,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func (d rosterDocument) toDomain() (roster.Roster, error) {
	players, err := fromPlayerDocuments(d.Players)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("decode players roster=%s: %w", d.ID, err)
	}
	bench, err := fromPlayerDocuments(d.Bench)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("decode bench roster=%s: %w", d.ID, err)
	}
	captain, err := d.Captain.toOptionalDomain()
	if err != nil {
		return roster.Roster{}, fmt.Errorf("decode captain roster=%s: %w", d.ID, err)
	}
	vice, err := d.ViceCaptain.toOptionalDomain()
	if err != nil {
		return roster.Roster{}, fmt.Errorf("decode vice captain roster=%s: %w", d.ID, err)
	}

	return roster.Roster{
		ID:             d.ID,
		Name:           d.Name,
		Budget:         d.Budget,
		Players:        players,
		Captain:        captain,
		ViceCaptain:    vice,
		Formation:      d.Formation,
		Bench:          bench,
		ExpectedPoints: d.ExpectedPoints,
		Reasoning:      d.Reasoning,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func encodeRoster(item roster.Roster) ([]byte, error) {
	return documentJSON.Marshal(toRosterDocument(item))
}

func decodeRoster(raw []byte) (roster.Roster, error) {
	var doc rosterDocument
	if err := documentJSON.Unmarshal(raw, &doc); err != nil {
		return roster.Roster{}, err
	}
	return doc.toDomain()
}
