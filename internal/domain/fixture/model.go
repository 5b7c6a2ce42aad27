package fixture

import "time"

// Fixture represents one Premier League match.
type Fixture struct {
	ID             int64
	Gameweek       int
	HomeClubID     int64
	AwayClubID     int64
	KickoffAt      *time.Time
	HomeScore      *int
	AwayScore      *int
	HomeDifficulty int
	AwayDifficulty int
	Started        bool
	Finished       bool
}

// InvolvesClub reports whether clubID plays in the fixture.
func (f Fixture) InvolvesClub(clubID int64) bool {
	return clubID > 0 && (f.HomeClubID == clubID || f.AwayClubID == clubID)
}
