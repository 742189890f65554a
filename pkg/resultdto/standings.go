package resultdto

type Entry struct {
	Rank            int     `json:"rank"`
	ID              string  `json:"id"`
	Score           float64 `json:"score"`
	Played          int     `json:"played"`
	Wins            int     `json:"wins"`
	Draws           int     `json:"draws"`
	Losses          int     `json:"losses"`
	WhiteWins       int     `json:"white_wins"`
	WhiteLosses     int     `json:"white_losses"`
	BlackWins       int     `json:"black_wins"`
	BlackLosses     int     `json:"black_losses"`
	Forfeits        int     `json:"forfeits"`
	KingsMade       int     `json:"kings_made"`
	Captures        int     `json:"captures"`
	Rating          float64 `json:"rating"`
	SonnebornBerger float64 `json:"sonneborn_berger"`
}

// Standings is a table, provisional until Final is set.
type Standings struct {
	RunID   string  `json:"run_id"`
	Games   int     `json:"games"`
	Final   bool    `json:"final"`
	Entries []Entry `json:"entries"`
}

type Progress struct {
	RunID  string `json:"run_id"`
	Total  int    `json:"total"`
	Done   int    `json:"done"`
	Status string `json:"status"`
}
