// Package domain contains entities without logic, just meta-data.
package domain

import "time"

const MaxDisplayNameLen = 36

type (
	RoomID        string
	ParticipantID string
)

// Participant is roster membership for one live connection. Identity is the
// transport connection id; a reconnect produces a brand new participant.
type Participant struct {
	ID       ParticipantID `json:"id"`
	Name     string        `json:"name"`
	JoinedAt time.Time     `json:"joinedAt"`
}

// NewParticipant avoids raw literals in adapters and keeps construction obvious.
// An empty name falls back to one derived from the connection id.
func NewParticipant(id ParticipantID, name string, joinedAt time.Time) Participant {
	if name == "" {
		name = DefaultDisplayName(id)
	}
	if len(name) > MaxDisplayNameLen {
		name = name[:MaxDisplayNameLen]
	}
	return Participant{ID: id, Name: name, JoinedAt: joinedAt}
}

// DefaultDisplayName derives a guest name from a connection id.
func DefaultDisplayName(id ParticipantID) string {
	s := string(id)
	if len(s) > 8 {
		s = s[:8]
	}
	return "guest-" + s
}
