package command

const (
	CommandShow    = "show"
	CommandHide    = "hide"
	CommandTrack   = "track"
	CommandUntrack = "untrack"
)

// Args are the raw plugin command arguments. Empty or malformed values fall
// back to defaults.
type Args struct {
	Map    string `json:"map"`
	Target string `json:"target"`
	Color  string `json:"color"`
}

type Request struct {
	Command string
	Args    Args
	// EventID is the event issuing the command, 0 when issued from outside
	// an event.
	EventID int
}

type Response struct {
	Command string `json:"command"`
	MapID   int    `json:"map_id,omitempty"`
	Target  string `json:"target,omitempty"`
	Color   string `json:"color,omitempty"`
}
