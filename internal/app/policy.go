package app

type BackpressureAction int

const (
	DropEvent BackpressureAction = iota
	KickPeer
)

// Policy decides what happens when a peer's send queue is full.
type Policy interface {
	OnBackPressure(peer *Binding) BackpressureAction
}

// SimplePolicy kicks the slow peer; it reconnects and renegotiates from a
// fresh offer.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(*Binding) BackpressureAction {
	return KickPeer
}
