package domain

import "time"

// Track is an immutable catalog entry once enqueued; AddedBy/AddedAt are
// stamped server-side on insertion and are the only fields the engine sets.
type Track struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Artist     string        `json:"artist"`
	Album      string        `json:"album"`
	PreviewURL *string       `json:"preview_url"`
	ImageURL   *string       `json:"image_url"`
	DurationMS int64         `json:"duration_ms"`
	AddedBy    ParticipantID `json:"addedBy"`
	AddedAt    time.Time     `json:"addedAt"`
}

// Playable reports whether the track carries a preview the client can play.
// Tracks without one still occupy the queue; the player decides what to do.
func (t Track) Playable() bool {
	return t.PreviewURL != nil && *t.PreviewURL != ""
}
