package memory

import (
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/fixture"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
)

const seedGameweek = 1

func SeedClubs() []player.Club {
	return []player.Club{
		{ID: 1, Name: "Arsenal", ShortName: "ARS", Strength: 5},
		{ID: 7, Name: "Chelsea", ShortName: "CHE", Strength: 4},
		{ID: 12, Name: "Liverpool", ShortName: "LIV", Strength: 5},
		{ID: 13, Name: "Man City", ShortName: "MCI", Strength: 5},
		{ID: 14, Name: "Man Utd", ShortName: "MUN", Strength: 3},
		{ID: 15, Name: "Newcastle", ShortName: "NEW", Strength: 4},
		{ID: 18, Name: "Spurs", ShortName: "TOT", Strength: 3},
		{ID: 20, Name: "Wolves", ShortName: "WOL", Strength: 2},
	}
}

// SeedPlayers is large enough to build a legal 15-man squad under a 100.0 budget,
// see SeedSquadIDs.
func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: 1, Name: "Raya", Club: "Arsenal", Position: player.PositionGoalkeeper, Price: 5.5, Form: 4.2, TotalPoints: 142, ValueForm: 0.8},
		{ID: 2, Name: "Sánchez", Club: "Chelsea", Position: player.PositionGoalkeeper, Price: 5.0, Form: 3.1, TotalPoints: 118, ValueForm: 0.6},
		{ID: 3, Name: "Pickford", Club: "Wolves", Position: player.PositionGoalkeeper, Price: 4.5, Form: 2.0, TotalPoints: 96, ValueForm: 0.4},
		{ID: 10, Name: "Gabriel", Club: "Arsenal", Position: player.PositionDefender, Price: 6.0, Form: 5.1, TotalPoints: 150, ValueForm: 0.9},
		{ID: 11, Name: "Alexander-Arnold", Club: "Liverpool", Position: player.PositionDefender, Price: 7.0, Form: 4.8, TotalPoints: 160, ValueForm: 0.7},
		{ID: 12, Name: "Gvardiol", Club: "Man City", Position: player.PositionDefender, Price: 6.0, Form: 4.0, TotalPoints: 153, ValueForm: 0.7},
		{ID: 13, Name: "Cucurella", Club: "Chelsea", Position: player.PositionDefender, Price: 5.5, Form: 3.6, TotalPoints: 120, ValueForm: 0.7},
		{ID: 14, Name: "Trippier", Club: "Newcastle", Position: player.PositionDefender, Price: 5.0, Form: 2.5, TotalPoints: 98, ValueForm: 0.5},
		{ID: 15, Name: "Porro", Club: "Spurs", Position: player.PositionDefender, Price: 5.5, Form: 3.9, TotalPoints: 130, ValueForm: 0.7},
		{ID: 20, Name: "Saka", Club: "Arsenal", Position: player.PositionMidfielder, Price: 10.0, Form: 6.5, TotalPoints: 210, ValueForm: 0.7},
		{ID: 21, Name: "Salah", Club: "Liverpool", Position: player.PositionMidfielder, Price: 13.0, Form: 8.2, TotalPoints: 265, ValueForm: 0.6},
		{ID: 22, Name: "Palmer", Club: "Chelsea", Position: player.PositionMidfielder, Price: 10.5, Form: 5.9, TotalPoints: 225, ValueForm: 0.6},
		{ID: 23, Name: "Fernandes", Club: "Man Utd", Position: player.PositionMidfielder, Price: 8.5, Form: 4.4, TotalPoints: 170, ValueForm: 0.5},
		{ID: 24, Name: "Gordon", Club: "Newcastle", Position: player.PositionMidfielder, Price: 7.5, Form: 3.8, TotalPoints: 150, ValueForm: 0.5},
		{ID: 25, Name: "Maddison", Club: "Spurs", Position: player.PositionMidfielder, Price: 7.5, Form: 3.0, TotalPoints: 128, ValueForm: 0.4},
		{ID: 26, Name: "Kudus", Club: "Spurs", Position: player.PositionMidfielder, Price: 6.5, Form: 3.4, TotalPoints: 110, ValueForm: 0.5},
		{ID: 27, Name: "Mount", Club: "Man Utd", Position: player.PositionMidfielder, Price: 5.5, Form: 2.2, TotalPoints: 70, ValueForm: 0.4},
		{ID: 30, Name: "Haaland", Club: "Man City", Position: player.PositionForward, Price: 14.0, Form: 7.4, TotalPoints: 240, ValueForm: 0.5},
		{ID: 31, Name: "Isak", Club: "Newcastle", Position: player.PositionForward, Price: 9.0, Form: 5.2, TotalPoints: 190, ValueForm: 0.6},
		{ID: 32, Name: "Cunha", Club: "Wolves", Position: player.PositionForward, Price: 6.5, Form: 4.1, TotalPoints: 150, ValueForm: 0.6},
		{ID: 33, Name: "Solanke", Club: "Spurs", Position: player.PositionForward, Price: 7.5, Form: 2.9, TotalPoints: 120, ValueForm: 0.4},
		{ID: 34, Name: "Wissa", Club: "Newcastle", Position: player.PositionForward, Price: 6.0, Form: 2.8, TotalPoints: 90, ValueForm: 0.5},
	}
}

func SeedFixtures() []fixture.Fixture {
	kickoff := time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC)
	at := func(offset time.Duration) *time.Time {
		t := kickoff.Add(offset)
		return &t
	}

	return []fixture.Fixture{
		{ID: 1, Gameweek: 1, HomeClubID: 12, AwayClubID: 15, KickoffAt: at(0), HomeDifficulty: 3, AwayDifficulty: 4},
		{ID: 2, Gameweek: 1, HomeClubID: 14, AwayClubID: 1, KickoffAt: at(2 * time.Hour), HomeDifficulty: 5, AwayDifficulty: 3},
		{ID: 3, Gameweek: 1, HomeClubID: 7, AwayClubID: 13, KickoffAt: at(4 * time.Hour), HomeDifficulty: 5, AwayDifficulty: 4},
		{ID: 4, Gameweek: 1, HomeClubID: 20, AwayClubID: 18, KickoffAt: at(26 * time.Hour), HomeDifficulty: 3, AwayDifficulty: 2},
		{ID: 5, Gameweek: 2, HomeClubID: 1, AwayClubID: 20, KickoffAt: at(7 * 24 * time.Hour), HomeDifficulty: 2, AwayDifficulty: 5},
		{ID: 6, Gameweek: 2, HomeClubID: 13, AwayClubID: 18, KickoffAt: at(7*24*time.Hour + 2*time.Hour), HomeDifficulty: 3, AwayDifficulty: 5},
	}
}

// SeedSquadIDs is a legal squad from SeedPlayers costing 97.0.
func SeedSquadIDs() []int64 {
	return []int64{2, 3, 10, 12, 13, 14, 15, 20, 23, 24, 26, 27, 31, 32, 34}
}

// SeedSnapshot bundles the seed data into a PlayerSource snapshot.
func SeedSnapshot() Snapshot {
	return Snapshot{
		Players:  SeedPlayers(),
		Clubs:    SeedClubs(),
		Fixtures: SeedFixtures(),
		Gameweek: seedGameweek,
	}
}
