package ledger

import "fmt"

// View retrieves information about the current ledger.
//
// Every accessor queries the host on each call; nothing is cached between
// calls. The host guarantees a valid ledger context exists for any in-progress
// invocation, so the accessors cannot fail under correct host operation. A
// host error here is a protocol violation between contract and host and
// panics rather than surfacing a recoverable error.
type View struct {
	host Host
}

// NewView returns a View bound to h.
func NewView(h Host) View {
	return View{host: h}
}

// ProtocolVersion returns the version of the protocol that the ledger was
// created with.
func (v View) ProtocolVersion() uint32 {
	pv, err := v.host.LedgerVersion()
	mustLedger(err)
	return pv
}

// Sequence returns the sequence number of the ledger.
//
// The sequence number is unique for each ledger and incremented by one for
// each new ledger.
func (v View) Sequence() uint32 {
	seq, err := v.host.LedgerSequence()
	mustLedger(err)
	return seq
}

// MaxLiveUntilLedger returns the maximum ledger sequence number that data can
// live to.
//
// Its relationship to TTL accounting is coupled to host internals; intended
// for advanced use only.
func (v View) MaxLiveUntilLedger() uint32 {
	liveUntil, err := v.host.MaxLiveUntilLedger()
	mustLedger(err)
	return liveUntil
}

// Timestamp returns a unix timestamp for when the ledger was closed.
//
// The timestamp is the number of seconds, excluding leap seconds, that have
// elapsed since unix epoch.
func (v View) Timestamp() uint64 {
	ts, err := v.host.LedgerTimestamp()
	mustLedger(err)
	return ts
}

// NetworkID returns the network identifier, the SHA-256 hash of the network
// passphrase.
func (v View) NetworkID() NetworkID {
	raw, err := v.host.LedgerNetworkID()
	mustLedger(err)
	// The host already guarantees the handle is exactly 32 bytes; the copy
	// is a plain transfer into the fixed-size type.
	var id NetworkID
	copy(id[:], raw)
	return id
}

// mustLedger asserts the infallible read contract. The host cannot fail to
// supply a ledger context for an in-progress invocation, so any error here is
// unrecoverable.
func mustLedger(err error) {
	if err != nil {
		panic(fmt.Sprintf("ledger: host failed to supply ledger context: %v", err))
	}
}
