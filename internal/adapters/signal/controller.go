package signal

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jamwave/jamroom/internal/core"
	"github.com/jamwave/jamroom/internal/domain"
)

// SessionNameKey is where the HTTP session remembers a display name; it is
// used as the join default when the payload carries none.
const SessionNameKey = "display_name"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controller upgrades room websocket connections and feeds commands into the
// engine. Participant identity is the connection id; a reconnect gets a
// fresh one.
type Controller struct {
	registry *core.Registry
	validate *validator.Validate

	readLimit  int64
	sendBuffer int
	writeWait  time.Duration
}

func NewController(registry *core.Registry, readLimit int64, sendBuffer int, writeWait time.Duration) *Controller {
	return &Controller{
		registry:   registry,
		validate:   validator.New(),
		readLimit:  readLimit,
		sendBuffer: sendBuffer,
		writeWait:  writeWait,
	}
}

// session is the per-connection state the read pump carries around.
type session struct {
	id          domain.ParticipantID
	conn        *wsConn
	defaultName string
	joined      map[domain.RoomID]struct{}
}

// HandleRoom upgrades the request and starts the connection pumps.
func (ctl *Controller) HandleRoom(ctx context.Context, c *gin.Context) {
	pid := domain.ParticipantID(uuid.NewString())

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	defaultName, _ := sessions.Default(c).Get(SessionNameKey).(string)
	sess := &session{
		id:          pid,
		conn:        newWSConn(ws, ctl.sendBuffer, ctl.writeWait),
		defaultName: defaultName,
		joined:      make(map[domain.RoomID]struct{}),
	}

	ctx, cancel := context.WithCancel(ctx)
	go sess.conn.writePump(ctx)
	go ctl.readPump(ctx, cancel, sess)

	log.Info().Str("module", "signal").Str("pid", string(pid)).Str("remote", c.Request.RemoteAddr).Str("ct", c.GetString("client_token")).Msg("ws connection established")
}

// readPump reads command envelopes until the connection dies, then turns the
// disconnect into a leave for every joined room.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, s *session) {
	defer func() {
		cancel()
		s.conn.Close()
		for roomID := range s.joined {
			ctl.registry.GetOrCreate(roomID).Leave(s.id)
		}
		log.Info().Str("module", "signal").Str("pid", string(s.id)).Msg("ws connection closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := s.conn.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("pid", string(s.id)).Msg("unexpected ws closure")
				}
				return
			}
			ctl.handleMessage(s, data)
		}
	}
}
