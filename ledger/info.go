// Package ledger exposes metadata about the currently executing ledger to
// contract code, together with a mutation interface used by simulation
// harnesses to define the ledger state a contract invocation will observe.
//
// Reads go through View, writes through Mutator. Both operate against a Host
// runtime that owns the canonical record; neither holds state of its own.
package ledger

import (
	"encoding/hex"

	"github.com/stellar/go/network"
)

// NetworkIDLength is the size of a network identifier in bytes.
const NetworkIDLength = 32

// NetworkID identifies a network instance. It is the SHA-256 hash of the
// network passphrase, for example for the public network:
//
//	SHA256("Public Global Stellar Network ; September 2015")
type NetworkID [NetworkIDLength]byte

// NetworkIDFromPassphrase derives the network identifier from a passphrase.
func NetworkIDFromPassphrase(passphrase string) NetworkID {
	return NetworkID(network.ID(passphrase))
}

func (id NetworkID) String() string {
	return hex.EncodeToString(id[:])
}

// Info is a snapshot of the metadata describing one ledger. The host runtime
// owns exactly one live Info per invocation context; it is replaced wholesale
// or field-mutated through a Mutator, never partially.
//
// MaxEntryTTL is stored in the host convention, which counts the current
// ledger. Accessor-facing TTL values exclude the current ledger; the
// translation between the two happens in Mutator.SetMaxEntryTTL and nowhere
// else.
type Info struct {
	// ProtocolVersion is the protocol revision the ledger was created under.
	ProtocolVersion uint32
	// SequenceNumber is the host-assigned ledger index. This package treats
	// it as opaque and never validates monotonicity.
	SequenceNumber uint32
	// Timestamp is unix seconds, excluding leap seconds, at ledger close.
	Timestamp uint64
	NetworkID NetworkID
	// BaseReserve is the minimum balance unit used by fee and reserve
	// computations. Its semantics are host-defined.
	BaseReserve uint32
	// MinTempEntryTTL is the minimum allowed TTL for temporary entries.
	MinTempEntryTTL uint32
	// MinPersistentEntryTTL is the minimum allowed TTL for persistent entries.
	MinPersistentEntryTTL uint32
	// MaxEntryTTL is the maximum allowed TTL, inclusive of the current ledger.
	MaxEntryTTL uint32
}
