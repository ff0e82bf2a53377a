package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/jamwave/jamroom/internal/domain"
)

// Inbound message types.
const (
	msgJoin        = "room:join"
	msgAddTrack    = "room:add-track"
	msgRemoveTrack = "room:remove-track"
	msgPlay        = "room:play"
	msgPause       = "room:pause"
	msgChat        = "room:chat"
	msgSyncTime    = "room:sync-time"
)

type roomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

type joinPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	UserName string `json:"userName"`
}

type trackPayload struct {
	ID         string  `json:"id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	PreviewURL *string `json:"preview_url"`
	ImageURL   *string `json:"image_url"`
	DurationMS int64   `json:"duration_ms" validate:"gte=0"`
}

type addTrackPayload struct {
	RoomID string       `json:"roomId" validate:"required"`
	Track  trackPayload `json:"track"`
}

type removeTrackPayload struct {
	RoomID  string `json:"roomId" validate:"required"`
	TrackID string `json:"trackId" validate:"required"`
}

type chatPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Message  string `json:"message" validate:"required"`
	UserName string `json:"userName"`
}

// handleMessage dispatches one inbound envelope. Malformed payloads are
// logged and dropped; the engine never sees them.
func (ctl *Controller) handleMessage(s *session, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("pid", string(s.id)).Msg("bad json envelope")
		return
	}

	switch env.Type {
	case msgJoin:
		ctl.handleJoin(s, data)
	case msgAddTrack:
		ctl.handleAddTrack(s, data)
	case msgRemoveTrack:
		ctl.handleRemoveTrack(s, data)
	case msgPlay:
		ctl.handlePlay(s, data)
	case msgPause:
		ctl.handlePause(s, data)
	case msgChat:
		ctl.handleChat(s, data)
	case msgSyncTime:
		ctl.handleSyncTime(s, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown message type")
	}
}

// decode unmarshals and validates one payload, reporting whether it is usable.
func (ctl *Controller) decode(s *session, data []byte, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("pid", string(s.id)).Msg("bad payload")
		return false
	}
	if err := ctl.validate.Struct(v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("pid", string(s.id)).Msg("invalid payload")
		return false
	}
	return true
}

func (ctl *Controller) handleJoin(s *session, data []byte) {
	var p joinPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	name := p.UserName
	if name == "" {
		name = s.defaultName
	}
	roomID := domain.RoomID(p.RoomID)
	ctl.registry.GetOrCreate(roomID).Join(s.id, name, s.conn)
	s.joined[roomID] = struct{}{}
}

func (ctl *Controller) handleAddTrack(s *session, data []byte) {
	var p addTrackPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	track := domain.Track{
		ID:         p.Track.ID,
		Name:       p.Track.Name,
		Artist:     p.Track.Artist,
		Album:      p.Track.Album,
		PreviewURL: p.Track.PreviewURL,
		ImageURL:   p.Track.ImageURL,
		DurationMS: p.Track.DurationMS,
	}
	ctl.registry.GetOrCreate(domain.RoomID(p.RoomID)).AddTrack(s.id, track)
}

func (ctl *Controller) handleRemoveTrack(s *session, data []byte) {
	var p removeTrackPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	ctl.registry.GetOrCreate(domain.RoomID(p.RoomID)).RemoveTrack(p.TrackID)
}

func (ctl *Controller) handlePlay(s *session, data []byte) {
	var p roomPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	ctl.registry.GetOrCreate(domain.RoomID(p.RoomID)).Play()
}

func (ctl *Controller) handlePause(s *session, data []byte) {
	var p roomPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	ctl.registry.GetOrCreate(domain.RoomID(p.RoomID)).Pause()
}

func (ctl *Controller) handleChat(s *session, data []byte) {
	var p chatPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	ctl.registry.GetOrCreate(domain.RoomID(p.RoomID)).Chat(s.id, p.UserName, p.Message)
}

func (ctl *Controller) handleSyncTime(s *session, data []byte) {
	var p roomPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	ctl.registry.GetOrCreate(domain.RoomID(p.RoomID)).SyncTime(s.id)
}
