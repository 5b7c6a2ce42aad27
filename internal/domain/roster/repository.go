package roster

import (
	"context"
	"errors"
)

// ErrAlreadyExists is returned by Create when the id is taken.
var ErrAlreadyExists = errors.New("roster already exists")

// Repository describes roster persistence needs from use cases.
// List returns rosters ordered by creation time, oldest first.
type Repository interface {
	Create(ctx context.Context, item Roster) error
	Get(ctx context.Context, rosterID string) (Roster, bool, error)
	List(ctx context.Context) ([]Roster, error)
	Update(ctx context.Context, item Roster) (bool, error)
	Delete(ctx context.Context, rosterID string) (bool, error)
}
