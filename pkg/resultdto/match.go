package resultdto

type SideStats struct {
	KingsMade int `json:"kings_made"`
	Captures  int `json:"captures"`
}

// Match is one finished game as served to clients.
type Match struct {
	GameID     int       `json:"game_id"`
	Round      int       `json:"round"`
	White      string    `json:"white"`
	Black      string    `json:"black"`
	Result     string    `json:"result"`
	Winner     string    `json:"winner,omitempty"`
	Reason     string    `json:"reason"`
	Moves      int       `json:"moves"`
	PDN        string    `json:"pdn"`
	WhiteStats SideStats `json:"white_stats"`
	BlackStats SideStats `json:"black_stats"`
	FailedBot  string    `json:"failed_bot,omitempty"`
	Error      string    `json:"error,omitempty"`
}
