package signal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamwave/jamroom/internal/core"
	"github.com/jamwave/jamroom/internal/domain"
)

func newTestController() *Controller {
	return NewController(core.NewRegistry(), 32768, 64, time.Second)
}

func newTestSession(id string) *session {
	return &session{
		id:     domain.ParticipantID(id),
		conn:   newWSConn(nil, 64, time.Second),
		joined: make(map[domain.RoomID]struct{}),
	}
}

// drain collects everything the engine pushed at this connection.
func drain(c *wsConn) []core.Frame {
	var out []core.Frame
	for {
		select {
		case f := <-c.send:
			out = append(out, f)
		default:
			return out
		}
	}
}

type stateFrame struct {
	Type string `json:"type"`
	core.Snapshot
}

func lastState(t *testing.T, frames []core.Frame) core.Snapshot {
	t.Helper()
	for i := len(frames) - 1; i >= 0; i-- {
		var msg stateFrame
		require.NoError(t, json.Unmarshal(frames[i], &msg))
		if msg.Type == core.MsgState {
			return msg.Snapshot
		}
	}
	t.Fatal("no room:state frame received")
	return core.Snapshot{}
}

func TestHandleJoinCreatesRoomAndRoster(t *testing.T) {
	ctl := newTestController()
	s := newTestSession("conn-1")

	ctl.handleMessage(s, []byte(`{"type":"room:join","roomId":"lounge","userName":"Alice"}`))

	require.Contains(t, s.joined, domain.RoomID("lounge"))
	snap := lastState(t, drain(s.conn))
	assert.EqualValues(t, "lounge", snap.RoomID)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "Alice", snap.Users[0].Name)
	assert.Nil(t, snap.CurrentTrack)
}

func TestHandleJoinDefaultsToSessionName(t *testing.T) {
	ctl := newTestController()
	s := newTestSession("conn-1")
	s.defaultName = "Zoe"

	ctl.handleMessage(s, []byte(`{"type":"room:join","roomId":"lounge","userName":""}`))

	snap := lastState(t, drain(s.conn))
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "Zoe", snap.Users[0].Name)
}

func TestHandleAddTrackStartsIdleRoom(t *testing.T) {
	ctl := newTestController()
	s := newTestSession("conn-1")

	ctl.handleMessage(s, []byte(`{"type":"room:join","roomId":"lounge","userName":"Alice"}`))
	ctl.handleMessage(s, []byte(`{"type":"room:add-track","roomId":"lounge","track":{"id":"trk-1","name":"Song","artist":"Band","album":"LP","preview_url":"https://cdn/p.mp3","duration_ms":180000}}`))

	snap := lastState(t, drain(s.conn))
	require.NotNil(t, snap.CurrentTrack)
	assert.Equal(t, "trk-1", snap.CurrentTrack.ID)
	assert.EqualValues(t, "conn-1", snap.CurrentTrack.AddedBy)
	assert.True(t, snap.IsPlaying)
	assert.Empty(t, snap.Queue)
}

func TestHandleRemovePlayPauseSync(t *testing.T) {
	ctl := newTestController()
	s := newTestSession("conn-1")
	ctl.handleMessage(s, []byte(`{"type":"room:join","roomId":"lounge"}`))
	ctl.handleMessage(s, []byte(`{"type":"room:add-track","roomId":"lounge","track":{"id":"trk-1","name":"A","duration_ms":60000}}`))
	ctl.handleMessage(s, []byte(`{"type":"room:add-track","roomId":"lounge","track":{"id":"trk-2","name":"B","duration_ms":60000}}`))

	ctl.handleMessage(s, []byte(`{"type":"room:remove-track","roomId":"lounge","trackId":"trk-2"}`))
	snap := lastState(t, drain(s.conn))
	assert.Empty(t, snap.Queue)

	ctl.handleMessage(s, []byte(`{"type":"room:pause","roomId":"lounge"}`))
	snap = lastState(t, drain(s.conn))
	assert.False(t, snap.IsPlaying)

	ctl.handleMessage(s, []byte(`{"type":"room:play","roomId":"lounge"}`))
	ctl.handleMessage(s, []byte(`{"type":"room:sync-time","roomId":"lounge"}`))
	snap = lastState(t, drain(s.conn))
	assert.True(t, snap.IsPlaying)
}

func TestHandleChatDeliversEvent(t *testing.T) {
	ctl := newTestController()
	s := newTestSession("conn-1")
	ctl.handleMessage(s, []byte(`{"type":"room:join","roomId":"lounge","userName":"Alice"}`))
	drain(s.conn)

	ctl.handleMessage(s, []byte(`{"type":"room:chat","roomId":"lounge","message":"hello","userName":"whatever"}`))

	frames := drain(s.conn)
	require.Len(t, frames, 1)
	var msg struct {
		Type     string `json:"type"`
		Message  string `json:"message"`
		UserName string `json:"userName"`
		UserID   string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(frames[0], &msg))
	assert.Equal(t, core.MsgChatMessage, msg.Type)
	assert.Equal(t, "hello", msg.Message)
	assert.Equal(t, "Alice", msg.UserName)
	assert.Equal(t, "conn-1", msg.UserID)
}

func TestInvalidPayloadsAreDropped(t *testing.T) {
	ctl := newTestController()
	s := newTestSession("conn-1")

	// not json at all
	ctl.handleMessage(s, []byte(`{{{`))
	// missing roomId
	ctl.handleMessage(s, []byte(`{"type":"room:join","userName":"Alice"}`))
	// track without id/name
	ctl.handleMessage(s, []byte(`{"type":"room:add-track","roomId":"lounge","track":{"duration_ms":1000}}`))
	// negative duration
	ctl.handleMessage(s, []byte(`{"type":"room:add-track","roomId":"lounge","track":{"id":"t","name":"n","duration_ms":-5}}`))
	// unknown type
	ctl.handleMessage(s, []byte(`{"type":"room:nuke","roomId":"lounge"}`))

	assert.Empty(t, s.joined)
	assert.Empty(t, drain(s.conn))
	// nothing valid ever reached the engine, so no room was created
	assert.Empty(t, ctl.registry.List())
}

func TestMalformedTrackDoesNotCreateRoom(t *testing.T) {
	ctl := newTestController()
	s := newTestSession("conn-1")

	ctl.handleMessage(s, []byte(`{"type":"room:add-track","roomId":"lounge","track":{"duration_ms":1000}}`))

	assert.Empty(t, ctl.registry.List())
}
