package ledger

// Host is the runtime that owns the canonical Info record. A production host
// serves the read calls only; the mutation calls exist for hosts running in
// simulation mode and must fail fast everywhere else.
type Host interface {
	// LedgerVersion returns the protocol version of the current ledger.
	LedgerVersion() (uint32, error)
	// LedgerSequence returns the sequence number of the current ledger.
	LedgerSequence() (uint32, error)
	// MaxLiveUntilLedger returns the maximum ledger sequence a TTL-bearing
	// entry may live to.
	MaxLiveUntilLedger() (uint32, error)
	// LedgerTimestamp returns the unix close time of the current ledger.
	LedgerTimestamp() (uint64, error)
	// LedgerNetworkID returns a handle to the network identifier. The host
	// guarantees the handle denotes exactly NetworkIDLength bytes.
	LedgerNetworkID() ([]byte, error)

	// SetLedgerInfo replaces the stored record wholesale. Simulation mode only.
	SetLedgerInfo(Info) error
	// WithMutLedgerInfo grants f scoped exclusive access to the stored record.
	// The change is committed on every normal exit path of f; no reader
	// observes the record mid-mutation. Simulation mode only.
	WithMutLedgerInfo(f func(*Info)) error
}
