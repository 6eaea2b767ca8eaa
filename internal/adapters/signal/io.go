package signal

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Consult/internal/app"
	"github.com/dkeye/Consult/internal/core"
	"github.com/dkeye/Consult/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, b *app.Binding, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("session_id", string(b.SessionID)).Str("role", string(b.Role)).Msg("readPump closing")
		ctl.Orch.Disconnect(b)
		ctl.limiter.Forget(b.ConnID)
		b.Cancel()
		c.Close()
	}()

	pongWait := ctl.opts.PingPeriod * 10 / 9
	if ctl.opts.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.opts.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("session_id", string(b.SessionID)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "signal").Str("session_id", string(b.SessionID)).Msg("readPump read error")
				}
				return
			}
			_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
			ctl.handleSignal(b, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(b *app.Binding, c *WsSignalConn, data []byte) {
	if !ctl.limiter.Allow(b.ConnID) {
		log.Warn().Str("module", "signal").Str("session_id", string(b.SessionID)).Str("role", string(b.Role)).Msg("rate limited")
		ctl.sendJSON(c, core.ErrorEvent("rate_limited"))
		return
	}

	ev, err := core.ParseInbound(data)
	if err != nil {
		ctl.reject(b, c, err)
		return
	}
	if ev.Type == core.EventPing {
		ctl.handlePing(c)
		return
	}
	if err := ctl.Orch.Dispatch(b, ev); err != nil {
		ctl.reject(b, c, err)
	}
}

func (ctl *SignalWSController) reject(b *app.Binding, c *WsSignalConn, err error) {
	log.Warn().Err(err).Str("module", "signal").Str("session_id", string(b.SessionID)).Str("role", string(b.Role)).Msg("rejected event")
	reason := "bad_payload"
	if !errors.Is(err, domain.ErrMalformedEvent) {
		reason = "internal"
	}
	ctl.sendJSON(c, core.ErrorEvent(reason))
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, out core.Outbound) {
	frame, err := out.Encode()
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON encode")
		return
	}
	_ = c.TrySend(frame)
}
