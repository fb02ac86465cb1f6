package models

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/daccred/ledgersim.attest.so/ledger"
)

// LedgerSnapshot is the JSON and database representation of one closed
// simulated ledger.
type LedgerSnapshot struct {
	Sequence              uint32    `json:"sequence"`
	ProtocolVersion       uint32    `json:"protocol_version"`
	ClosedAt              time.Time `json:"closed_at"`
	NetworkID             string    `json:"network_id"`
	BaseReserve           uint32    `json:"base_reserve"`
	MinTempEntryTTL       uint32    `json:"min_temp_entry_ttl"`
	MinPersistentEntryTTL uint32    `json:"min_persistent_entry_ttl"`
	MaxEntryTTL           uint32    `json:"max_entry_ttl"`
}

// SnapshotFromInfo converts the host record into its external representation.
func SnapshotFromInfo(info ledger.Info) LedgerSnapshot {
	return LedgerSnapshot{
		Sequence:              info.SequenceNumber,
		ProtocolVersion:       info.ProtocolVersion,
		ClosedAt:              time.Unix(int64(info.Timestamp), 0).UTC(),
		NetworkID:             info.NetworkID.String(),
		BaseReserve:           info.BaseReserve,
		MinTempEntryTTL:       info.MinTempEntryTTL,
		MinPersistentEntryTTL: info.MinPersistentEntryTTL,
		MaxEntryTTL:           info.MaxEntryTTL,
	}
}

// Info converts the snapshot back into a host record. The network identifier
// must be exactly 32 hex-encoded bytes.
func (s LedgerSnapshot) Info() (ledger.Info, error) {
	raw, err := hex.DecodeString(s.NetworkID)
	if err != nil {
		return ledger.Info{}, fmt.Errorf("invalid network id %q: %w", s.NetworkID, err)
	}
	if len(raw) != ledger.NetworkIDLength {
		return ledger.Info{}, fmt.Errorf("network id must be %d bytes, got %d", ledger.NetworkIDLength, len(raw))
	}
	var id ledger.NetworkID
	copy(id[:], raw)
	return ledger.Info{
		ProtocolVersion:       s.ProtocolVersion,
		SequenceNumber:        s.Sequence,
		Timestamp:             uint64(s.ClosedAt.Unix()),
		NetworkID:             id,
		BaseReserve:           s.BaseReserve,
		MinTempEntryTTL:       s.MinTempEntryTTL,
		MinPersistentEntryTTL: s.MinPersistentEntryTTL,
		MaxEntryTTL:           s.MaxEntryTTL,
	}, nil
}
