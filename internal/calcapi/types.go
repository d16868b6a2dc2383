package calcapi

import "github.com/evgenyvinnik/MCPlator-sub000/internal/anim"

// PressRequest is the JSON body for POST /calculator/keys.
type PressRequest struct {
	Key string `json:"key"`
}

// SequenceRequest is the JSON body for POST /calculator/sequences. Callers
// supply either a flat key list (the chat layer's shape) or a full command
// list; Commands wins when both are present.
type SequenceRequest struct {
	ID         string         `json:"id,omitempty"`
	Keys       []string       `json:"keys,omitempty"`
	KeyDelayMs int            `json:"key_delay_ms,omitempty"`
	Commands   []anim.Command `json:"commands,omitempty"`
}

// QueuedResponse acknowledges a sequence accepted without waiting.
type QueuedResponse struct {
	ID       string `json:"id"`
	Queued   bool   `json:"queued"`
	Position int    `json:"position"`
}

// ResultResponse carries the final display once a sequence has played.
type ResultResponse struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}
