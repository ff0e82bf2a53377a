package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jamwave/jamroom/internal/domain"
)

// Room is a threadsafe in-memory listening room. Every command handler and
// the clock tick run to completion under one mutex per room; unrelated rooms
// never contend. It never closes adapter-owned resources except to drop a
// slow consumer.
type Room struct {
	id domain.RoomID

	mu    sync.Mutex
	st    State
	conns map[domain.ParticipantID]SignalConnection

	now func() time.Time
}

func NewRoom(id domain.RoomID) *Room {
	return &Room{
		id:    id,
		conns: make(map[domain.ParticipantID]SignalConnection),
		now:   time.Now,
	}
}

func (r *Room) ID() domain.RoomID { return r.id }

// RoomInfo is a read-only view for APIs (no transport fields).
type RoomInfo struct {
	ID           domain.RoomID `json:"id"`
	Participants int           `json:"participants"`
	QueueLength  int           `json:"queueLength"`
	Playing      bool          `json:"playing"`
}

func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		ID:           r.id,
		Participants: len(r.st.Roster),
		QueueLength:  len(r.st.Queue),
		Playing:      r.st.Playing,
	}
}

// Join adds or replaces the roster entry for this connection id. The joiner
// gets the full snapshot; everyone else gets a user-joined event. If nothing
// is attributed yet and tracks are queued, a DJ is derived.
func (r *Room) Join(id domain.ParticipantID, name string, conn SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := domain.NewParticipant(id, name, r.now())
	r.st.upsertParticipant(p)
	r.conns[id] = conn

	if r.st.CurrentDJ == nil && len(r.st.Queue) > 0 {
		r.st.CurrentDJ = r.st.nextDJ()
	}

	r.sendTo(id, encodeFrame(stateMessage{Type: MsgState, Snapshot: r.st.snapshot(r.id)}))
	r.broadcastExcept(id, encodeFrame(userJoinedMessage{
		Type:     MsgUserJoined,
		ID:       p.ID,
		Name:     p.Name,
		SocketID: p.ID,
		JoinedAt: p.JoinedAt,
	}))
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("pid", string(id)).Str("name", p.Name).Msg("participant joined")
}

// Leave removes the roster entry. A departing DJ forces advancement to the
// next track, which re-derives attribution.
func (r *Room) Leave(id domain.ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.conns, id)
	if !r.st.removeParticipant(id) {
		return
	}
	if r.st.CurrentDJ != nil && *r.st.CurrentDJ == id {
		r.st.advance(r.now())
	}

	r.broadcastExcept(id, encodeFrame(userLeftMessage{Type: MsgUserLeft, SocketID: id}))
	r.broadcastExcept(id, encodeFrame(stateMessage{Type: MsgState, Snapshot: r.st.snapshot(r.id)}))
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("pid", string(id)).Msg("participant left")
}

// AddTrack stamps attribution server-side and appends to the queue tail.
// Into an idle room the track starts playing immediately.
func (r *Room) AddTrack(from domain.ParticipantID, t domain.Track) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.AddedBy = from
	t.AddedAt = r.now()
	r.st.Queue = append(r.st.Queue, t)

	if r.st.Current == nil {
		r.st.advance(r.now())
	} else if r.st.CurrentDJ == nil {
		r.st.CurrentDJ = r.st.nextDJ()
	}

	r.broadcastState()
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).Str("track", t.ID).Str("pid", string(from)).Bool("playable", t.Playable()).Msg("track added")
}

// RemoveTrack drops the first queued entry matching id. The currently
// playing track and unknown ids are no-ops.
func (r *Room) RemoveTrack(trackID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.st.removeQueued(trackID)
	r.broadcastState()
}

// Play resumes the clock from the stored offset.
func (r *Room) Play() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.st.resume(r.now())
	r.broadcastState()
}

// Pause captures the elapsed time at this instant and stops the clock.
func (r *Room) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.st.pause(r.now())
	r.broadcastState()
}

// Chat fans out a chat event without touching room state. A sender present
// in the roster is attributed by their roster name, not the supplied one.
func (r *Room) Chat(from domain.ParticipantID, name, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.st.rosterIndex(from); i >= 0 {
		name = r.st.Roster[i].Name
	}
	msg := domain.NewChatMessage(from, name, message, r.now())
	frame := encodeFrame(chatMessage{Type: MsgChatMessage, ChatMessage: msg})
	for id := range r.conns {
		r.sendTo(id, frame)
	}
}

// SyncTime returns the current snapshot to the requesting connection only,
// so clients can reconcile drift on demand.
func (r *Room) SyncTime(id domain.ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sendTo(id, encodeFrame(stateMessage{Type: MsgState, Snapshot: r.st.snapshot(r.id)}))
}

// Tick drives the playback clock once. Only a clock-driven advancement is
// broadcast; plain position updates stay server-side until the next snapshot.
func (r *Room) Tick(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.st.tick(now) {
		r.broadcastState()
		log.Debug().Str("module", "core.room").Str("room", string(r.id)).Msg("track advanced by clock")
	}
}

// broadcastState pushes the full snapshot to everyone, mutex held.
func (r *Room) broadcastState() {
	frame := encodeFrame(stateMessage{Type: MsgState, Snapshot: r.st.snapshot(r.id)})
	for id := range r.conns {
		r.sendTo(id, frame)
	}
}

func (r *Room) broadcastExcept(skip domain.ParticipantID, frame Frame) {
	for id := range r.conns {
		if id == skip {
			continue
		}
		r.sendTo(id, frame)
	}
}

// sendTo never blocks; a backpressured connection is closed and its read
// pump turns that into a leave.
func (r *Room) sendTo(id domain.ParticipantID, frame Frame) {
	if frame == nil {
		return
	}
	c, ok := r.conns[id]
	if !ok {
		return
	}
	if err := c.TrySend(frame); err != nil {
		log.Warn().Str("module", "core.room").Str("room", string(r.id)).Str("pid", string(id)).Err(err).Msg("dropping slow consumer")
		c.Close()
	}
}
