package domain

// Snapshot is a point-in-time copy of a session, safe to hand to presentation layers.
type Snapshot struct {
	SessionID  string     `json:"session_id"`
	Step       Step       `json:"step"`
	StepName   string     `json:"step_name"`
	Processing bool       `json:"processing"`
	Messages   []Message  `json:"messages"`
	Liked      []OutfitID `json:"liked"`
}
