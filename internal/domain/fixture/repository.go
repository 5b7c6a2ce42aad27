package fixture

import "context"

// Source describes upstream fixture data needs from use cases.
type Source interface {
	ListFixtures(ctx context.Context) ([]Fixture, error)
}
