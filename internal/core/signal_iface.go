package core

import "errors"

var ErrBackpressure = errors.New("backpressure")

// Frame is a raw encoded signaling message.
type Frame []byte

// ConnID identifies one transport connection for its lifetime.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues without blocking; ErrBackpressure when the queue is full.
	TrySend(Frame) error
	Close()
}
