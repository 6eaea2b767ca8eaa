package signal

import "github.com/dkeye/Consult/internal/core"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, core.Outbound{Type: core.EventPong})
}
