package ledger

import "math"

// Mutator lets a simulation harness define or mutate the ledger state a
// subsequent contract invocation will observe.
//
// All field-level setters route through the host's scoped mutation primitive,
// so a change is either fully applied or, when the host rejects the call, not
// applied at all. Calling a Mutator against a host that is not running in
// simulation mode returns the host's error immediately; it never silently
// no-ops.
type Mutator struct {
	host Host
}

// NewMutator returns a Mutator bound to h.
func NewMutator(h Host) Mutator {
	return Mutator{host: h}
}

// Set replaces the host's stored record wholesale.
func (m Mutator) Set(info Info) error {
	return m.host.SetLedgerInfo(info)
}

// Get returns a copy of the current record. Mutating the copy has no effect
// on the host's stored state.
func (m Mutator) Get() (Info, error) {
	var out Info
	if err := m.host.WithMutLedgerInfo(func(li *Info) {
		out = *li
	}); err != nil {
		return Info{}, err
	}
	return out, nil
}

func (m Mutator) SetProtocolVersion(protocolVersion uint32) error {
	return m.host.WithMutLedgerInfo(func(li *Info) {
		li.ProtocolVersion = protocolVersion
	})
}

func (m Mutator) SetSequenceNumber(sequenceNumber uint32) error {
	return m.host.WithMutLedgerInfo(func(li *Info) {
		li.SequenceNumber = sequenceNumber
	})
}

func (m Mutator) SetTimestamp(timestamp uint64) error {
	return m.host.WithMutLedgerInfo(func(li *Info) {
		li.Timestamp = timestamp
	})
}

func (m Mutator) SetNetworkID(networkID NetworkID) error {
	return m.host.WithMutLedgerInfo(func(li *Info) {
		li.NetworkID = networkID
	})
}

func (m Mutator) SetBaseReserve(baseReserve uint32) error {
	return m.host.WithMutLedgerInfo(func(li *Info) {
		li.BaseReserve = baseReserve
	})
}

func (m Mutator) SetMinTempEntryTTL(minTempEntryTTL uint32) error {
	return m.host.WithMutLedgerInfo(func(li *Info) {
		li.MinTempEntryTTL = minTempEntryTTL
	})
}

func (m Mutator) SetMinPersistentEntryTTL(minPersistentEntryTTL uint32) error {
	return m.host.WithMutLedgerInfo(func(li *Info) {
		li.MinPersistentEntryTTL = minPersistentEntryTTL
	})
}

// SetMaxEntryTTL sets the maximum entry TTL, given in the accessor-facing
// convention that excludes the current ledger from the count.
//
// The host's stored record counts the current ledger, so the value written is
// maxEntryTTL+1, saturating at the uint32 maximum. This is the single point
// that reconciles the two counting conventions.
func (m Mutator) SetMaxEntryTTL(maxEntryTTL uint32) error {
	return m.host.WithMutLedgerInfo(func(li *Info) {
		if maxEntryTTL == math.MaxUint32 {
			li.MaxEntryTTL = math.MaxUint32
		} else {
			li.MaxEntryTTL = maxEntryTTL + 1
		}
	})
}
