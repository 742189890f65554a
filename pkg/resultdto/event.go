package resultdto

type EventType string

const (
	EventSnapshot EventType = "snapshot"
	EventStarted  EventType = "started"
	EventMatch    EventType = "match"
	EventFinished EventType = "finished"
)

// Event is one frame of the live feed.
type Event struct {
	Type      EventType  `json:"type"`
	Progress  Progress   `json:"progress"`
	Match     *Match     `json:"match,omitempty"`
	Standings *Standings `json:"standings,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "status api error"
}
