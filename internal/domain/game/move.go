package game

// @name MoveRequest
type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// @name LegalityResponse
type LegalityResponse struct {
	Legal  bool   `json:"legal"`
	Reason string `json:"reason,omitempty"`
}

// @name StepResponse
type StepResponse struct {
	View
	Changed bool `json:"changed"`
}

// @name ErrorResponse
type ErrorResponse struct {
	Reason      string `json:"reason,omitempty"`
	Description string `json:"description"`
}

const (
	MessageMove    = "move"
	MessageBack    = "back"
	MessageForward = "forward"
)

// Message is a client frame on the game websocket.
type Message struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}
