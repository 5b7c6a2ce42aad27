package fpl

type bootstrapEnvelope struct {
	Events   []eventDTO   `json:"events"`
	Teams    []teamDTO    `json:"teams"`
	Elements []elementDTO `json:"elements"`
}

type eventDTO struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	IsCurrent  bool   `json:"is_current"`
	IsNext     bool   `json:"is_next"`
	IsPrevious bool   `json:"is_previous"`
	Finished   bool   `json:"finished"`
}

type teamDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Strength  int    `json:"strength"`
}

type elementDTO struct {
	ID          int64  `json:"id"`
	WebName     string `json:"web_name"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	Team        int64  `json:"team"`
	ElementType int    `json:"element_type"`
	NowCost     int64  `json:"now_cost"`
	Form        string `json:"form"`
	TotalPoints int    `json:"total_points"`
	ValueForm   string `json:"value_form"`
}

type elementSummaryEnvelope struct {
	History []historyDTO `json:"history"`
}

type historyDTO struct {
	Round        int   `json:"round"`
	OpponentTeam int64 `json:"opponent_team"`
	WasHome      bool  `json:"was_home"`
	Minutes      int   `json:"minutes"`
	GoalsScored  int   `json:"goals_scored"`
	Assists      int   `json:"assists"`
	CleanSheets  int   `json:"clean_sheets"`
	Bonus        int   `json:"bonus"`
	TotalPoints  int   `json:"total_points"`
	Value        int64 `json:"value"`
}

type fixtureDTO struct {
	ID              int64   `json:"id"`
	Event           *int    `json:"event"`
	TeamH           int64   `json:"team_h"`
	TeamA           int64   `json:"team_a"`
	TeamHScore      *int    `json:"team_h_score"`
	TeamAScore      *int    `json:"team_a_score"`
	KickoffTime     *string `json:"kickoff_time"`
	TeamHDifficulty int     `json:"team_h_difficulty"`
	TeamADifficulty int     `json:"team_a_difficulty"`
	Started         *bool   `json:"started"`
	Finished        bool    `json:"finished"`
}

type liveEnvelope struct {
	Elements []liveElementDTO `json:"elements"`
}

type liveElementDTO struct {
	ID    int64        `json:"id"`
	Stats liveStatsDTO `json:"stats"`
}

type liveStatsDTO struct {
	Minutes     int `json:"minutes"`
	GoalsScored int `json:"goals_scored"`
	Assists     int `json:"assists"`
	Bonus       int `json:"bonus"`
	TotalPoints int `json:"total_points"`
}
