package core

// Frame is an encoded outbound message ready for the wire.
type Frame []byte

// SignalConnection abstracts a per-connection messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend must not block; it reports backpressure instead.
	TrySend(Frame) error
	Close()
}
