package player

import "context"

// Source describes the upstream player data the use cases read from.
type Source interface {
	ListPlayers(ctx context.Context) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []int64) ([]Player, error)
	ListClubs(ctx context.Context) ([]Club, error)
	CurrentGameweek(ctx context.Context) (int, error)
	ListAppearances(ctx context.Context, playerID int64) ([]Appearance, error)
	ListLiveStats(ctx context.Context, gameweek int) ([]LiveStat, error)
}
