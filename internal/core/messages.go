package core

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jamwave/jamroom/internal/domain"
)

// Outbound message types.
const (
	MsgState       = "room:state"
	MsgChatMessage = "room:chat-message"
	MsgUserJoined  = "room:user-joined"
	MsgUserLeft    = "room:user-left"
)

type stateMessage struct {
	Type string `json:"type"`
	Snapshot
}

type chatMessage struct {
	Type string `json:"type"`
	domain.ChatMessage
}

type userJoinedMessage struct {
	Type     string               `json:"type"`
	ID       domain.ParticipantID `json:"id"`
	Name     string               `json:"name"`
	SocketID domain.ParticipantID `json:"socketId"`
	JoinedAt time.Time            `json:"joinedAt"`
}

type userLeftMessage struct {
	Type     string               `json:"type"`
	SocketID domain.ParticipantID `json:"socketId"`
}

func encodeFrame(v any) Frame {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "core.room").Msg("encode frame")
		return nil
	}
	return Frame(b)
}
