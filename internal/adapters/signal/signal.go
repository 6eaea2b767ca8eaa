package signal

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dkeye/Consult/internal/app/orch"
	"github.com/dkeye/Consult/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("connection closed")

const writeWait = 5 * time.Second

type Options struct {
	ReadLimit          int64
	PingPeriod         time.Duration
	SendBuffer         int
	MaxEventsPerSecond int
	// AllowedOrigin is the frontend origin browsers connect from. Empty allows any.
	AllowedOrigin string
}

type SignalWSController struct {
	Orch     *orch.Orchestrator
	opts     Options
	upgrader websocket.Upgrader
	limiter  *RateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 32
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = 54 * time.Second
	}
	if opts.MaxEventsPerSecond <= 0 {
		opts.MaxEventsPerSecond = 50
	}
	return &SignalWSController{
		Orch: o,
		opts: opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(opts.AllowedOrigin),
		},
		limiter: NewRateLimiter(opts.MaxEventsPerSecond, time.Second),
	}
}

func originChecker(allowed string) func(r *http.Request) bool {
	if allowed == "" {
		return func(r *http.Request) bool { return true }
	}
	want, err := url.Parse(allowed)
	if err != nil {
		return func(r *http.Request) bool { return false }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Scheme == want.Scheme && u.Host == want.Host
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and attaches the connection to the
// session named by its token query parameter.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.Query("token")
	connID := core.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn_id", string(connID)).Msg("new WS connection")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}
	ctx, cancel := context.WithCancel(ctx)
	b, err := ctl.Orch.Connect(token, connID, conn, cancel)
	if err != nil {
		cancel()
		writeClose(ws, websocket.ClosePolicyViolation, "unauthorized")
		conn.Close()
		return
	}

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, b, conn)
}

func writeClose(ws *websocket.Conn, code int, reason string) {
	_ = ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
}
