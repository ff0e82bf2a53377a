package domain

import (
	"strconv"
	"time"
)

// ChatMessage is fire-and-forget: delivered to the room, never stored in
// room state. Retention is the client's problem.
type ChatMessage struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	UserName  string        `json:"userName"`
	UserID    ParticipantID `json:"userId"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewChatMessage(from ParticipantID, name, message string, now time.Time) ChatMessage {
	return ChatMessage{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Message:   message,
		UserName:  name,
		UserID:    from,
		Timestamp: now,
	}
}
