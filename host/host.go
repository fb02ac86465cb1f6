// Package host provides an in-memory ledger host runtime. It owns the
// canonical ledger record, serves the read calls behind ledger.View, and, when
// constructed in simulation mode, accepts the mutation calls behind
// ledger.Mutator.
package host

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/daccred/ledgersim.attest.so/ledger"
)

var (
	// ErrNotSimulation is returned for mutation calls against a host that was
	// not constructed in simulation mode.
	ErrNotSimulation = errors.New("host: ledger mutation requires simulation mode")
	// ErrNoLedgerContext is returned for calls made before any ledger record
	// has been installed.
	ErrNoLedgerContext = errors.New("host: no ledger context")
)

// Sim is a host runtime holding one ledger record. The zero value has no
// ledger context and rejects every call; use NewSim or NewSealed.
type Sim struct {
	mu         sync.RWMutex
	info       ledger.Info
	open       bool
	simulation bool
	logger     *logrus.Entry
}

// NewSim returns a simulation-mode host with no ledger context. The context
// opens when the first record is installed via SetLedgerInfo.
func NewSim(logger *logrus.Entry) *Sim {
	return &Sim{simulation: true, logger: logger}
}

// NewSealed returns a production-mode host serving reads over info. Mutation
// calls against it fail with ErrNotSimulation.
func NewSealed(info ledger.Info, logger *logrus.Entry) *Sim {
	return &Sim{info: info, open: true, logger: logger}
}

func (h *Sim) LedgerVersion() (uint32, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.open {
		return 0, ErrNoLedgerContext
	}
	return h.info.ProtocolVersion, nil
}

func (h *Sim) LedgerSequence() (uint32, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.open {
		return 0, ErrNoLedgerContext
	}
	return h.info.SequenceNumber, nil
}

// MaxLiveUntilLedger is the current sequence plus the stored maximum entry
// TTL minus one, the stored value counting the current ledger.
func (h *Sim) MaxLiveUntilLedger() (uint32, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.open {
		return 0, ErrNoLedgerContext
	}
	if h.info.MaxEntryTTL == 0 {
		return h.info.SequenceNumber, nil
	}
	return saturatingAdd(h.info.SequenceNumber, h.info.MaxEntryTTL-1), nil
}

func (h *Sim) LedgerTimestamp() (uint64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.open {
		return 0, ErrNoLedgerContext
	}
	return h.info.Timestamp, nil
}

func (h *Sim) LedgerNetworkID() ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.open {
		return nil, ErrNoLedgerContext
	}
	id := make([]byte, ledger.NetworkIDLength)
	copy(id, h.info.NetworkID[:])
	return id, nil
}

// SetLedgerInfo replaces the stored record and opens the ledger context if it
// was not open yet.
func (h *Sim) SetLedgerInfo(info ledger.Info) error {
	if !h.simulation {
		return ErrNotSimulation
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.info = info
	h.open = true
	if h.logger != nil {
		h.logger.Debugf("Installed ledger %d (protocol %d)", info.SequenceNumber, info.ProtocolVersion)
	}
	return nil
}

// WithMutLedgerInfo applies f to the stored record under the write lock. The
// mutation runs on a private copy and is committed when f returns, so a panic
// inside f leaves the prior record intact and no reader ever observes a
// half-applied change.
func (h *Sim) WithMutLedgerInfo(f func(*ledger.Info)) error {
	if !h.simulation {
		return ErrNotSimulation
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.open {
		return ErrNoLedgerContext
	}
	work := h.info
	f(&work)
	h.info = work
	return nil
}

// Snapshot returns a copy of the stored record. Unlike the mutation calls it
// is served in any mode.
func (h *Sim) Snapshot() (ledger.Info, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.open {
		return ledger.Info{}, ErrNoLedgerContext
	}
	return h.info, nil
}

// AdvanceLedger closes the next ledger: the sequence is incremented by one
// and the close time moves forward by dt seconds. Returns the new sequence.
// Simulation mode only.
func (h *Sim) AdvanceLedger(dt uint64) (uint32, error) {
	var seq uint32
	err := h.WithMutLedgerInfo(func(li *ledger.Info) {
		li.SequenceNumber++
		li.Timestamp += dt
		seq = li.SequenceNumber
	})
	if err != nil {
		return 0, err
	}
	if h.logger != nil {
		h.logger.Debugf("Advanced to ledger %d", seq)
	}
	return seq, nil
}

func saturatingAdd(a, b uint32) uint32 {
	if sum := a + b; sum >= a {
		return sum
	}
	return ^uint32(0)
}
