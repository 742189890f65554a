package domain

import "time"

type TournamentRun struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	BoardSize  int       `json:"board_size"`
	Bots       []string  `json:"bots"`
	Games      int       `json:"games"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type MatchRecord struct {
	RunID         string    `json:"run_id"`
	GameID        int       `json:"game_id"`
	Round         int       `json:"round"`
	White         string    `json:"white"`
	Black         string    `json:"black"`
	Result        string    `json:"result"`
	Reason        string    `json:"reason"`
	Moves         int       `json:"moves"`
	PDN           string    `json:"pdn"`
	WhiteKings    int       `json:"white_kings"`
	WhiteCaptures int       `json:"white_captures"`
	BlackKings    int       `json:"black_kings"`
	BlackCaptures int       `json:"black_captures"`
	FailedBot     string    `json:"failed_bot,omitempty"`
	Error         string    `json:"error,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

type StandingRecord struct {
	RunID           string    `json:"run_id"`
	Rank            int       `json:"rank"`
	BotID           string    `json:"bot_id"`
	Score           float64   `json:"score"`
	Played          int       `json:"played"`
	Wins            int       `json:"wins"`
	Draws           int       `json:"draws"`
	Losses          int       `json:"losses"`
	WhiteWins       int       `json:"white_wins"`
	WhiteLosses     int       `json:"white_losses"`
	BlackWins       int       `json:"black_wins"`
	BlackLosses     int       `json:"black_losses"`
	Forfeits        int       `json:"forfeits"`
	KingsMade       int       `json:"kings_made"`
	Captures        int       `json:"captures"`
	Rating          float64   `json:"rating"`
	SonnebornBerger float64   `json:"sonneborn_berger"`
	UpdatedAt       time.Time `json:"updated_at"`
}
