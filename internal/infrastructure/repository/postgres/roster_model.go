package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
)

type rosterTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	Name           string     `db:"name"`
	Budget         float64    `db:"budget"`
	Players        []byte     `db:"players"`
	Captain        []byte     `db:"captain"`
	ViceCaptain    []byte     `db:"vice_captain"`
	Formation      string     `db:"formation"`
	Bench          []byte     `db:"bench"`
	ExpectedPoints float64    `db:"expected_points"`
	Reasoning      string     `db:"reasoning"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

// playerDocument is the JSONB shape of a player snapshot inside a roster row.
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

// toDomain rejects documents that do not describe a valid player, so a
// hand-edited row cannot smuggle an unknown position into validation.
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

func encodePlayers(items []player.Player) ([]byte, error) {
	docs := make([]playerDocument, 0, len(items))
	for _, p := range items {
		docs = append(docs, toPlayerDocument(p))
	}
	return sonic.Marshal(docs)
}

func decodePlayers(raw []byte) ([]player.Player, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var docs []playerDocument
	if err := sonic.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	out := make([]player.Player, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// decodePlayer maps an empty document to the zero Player, which marks an unset
// captain or vice-captain.
func decodePlayer(raw []byte) (player.Player, error) {
	if len(raw) == 0 {
		return player.Player{}, nil
	}
	var doc playerDocument
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return player.Player{}, err
	}
	if doc == (playerDocument{}) {
		return player.Player{}, nil
	}
	return doc.toDomain()
}

// rosterWriteModel is the column set written on insert and update. JSONB
// columns travel as text so lib/pq does not send them as bytea.
type rosterWriteModel struct {
	PublicID       string    `db:"public_id"`
	Name           string    `db:"name"`
	Budget         float64   `db:"budget"`
	Players        string    `db:"players"`
	Captain        string    `db:"captain"`
	ViceCaptain    string    `db:"vice_captain"`
	Formation      string    `db:"formation"`
	Bench          string    `db:"bench"`
	ExpectedPoints float64   `db:"expected_points"`
	Reasoning      string    `db:"reasoning"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func newRosterWriteModel(item roster.Roster) (rosterWriteModel, error) {
	players, err := encodePlayers(item.Players)
	if err != nil {
		return rosterWriteModel{}, fmt.Errorf("encode players: %w", err)
	}
	bench, err := encodePlayers(item.Bench)
	if err != nil {
		return rosterWriteModel{}, fmt.Errorf("encode bench: %w", err)
	}
	captain, err := sonic.Marshal(toPlayerDocument(item.Captain))
	if err != nil {
		return rosterWriteModel{}, fmt.Errorf("encode captain: %w", err)
	}
	vice, err := sonic.Marshal(toPlayerDocument(item.ViceCaptain))
	if err != nil {
		return rosterWriteModel{}, fmt.Errorf("encode vice captain: %w", err)
	}

	return rosterWriteModel{
		PublicID:       item.ID,
		Name:           item.Name,
		Budget:         item.Budget,
		Players:        string(players),
		Captain:        string(captain),
		ViceCaptain:    string(vice),
		Formation:      item.Formation,
		Bench:          string(bench),
		ExpectedPoints: item.ExpectedPoints,
		Reasoning:      item.Reasoning,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}, nil
}

func (m rosterTableModel) toDomain() (roster.Roster, error) {
	players, err := decodePlayers(m.Players)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("decode players roster=%s: %w", m.PublicID, err)
	}
	bench, err := decodePlayers(m.Bench)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("decode bench roster=%s: %w", m.PublicID, err)
	}
	captain, err := decodePlayer(m.Captain)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("decode captain roster=%s: %w", m.PublicID, err)
	}
	vice, err := decodePlayer(m.ViceCaptain)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("decode vice captain roster=%s: %w", m.PublicID, err)
	}

	return roster.Roster{
		ID:             m.PublicID,
		Name:           m.Name,
		Budget:         m.Budget,
		Players:        players,
		Captain:        captain,
		ViceCaptain:    vice,
		Formation:      m.Formation,
		Bench:          bench,
		ExpectedPoints: m.ExpectedPoints,
		Reasoning:      m.Reasoning,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}
