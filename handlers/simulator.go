package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/daccred/ledgersim.attest.so/host"
	"github.com/daccred/ledgersim.attest.so/ledger"
	"github.com/daccred/ledgersim.attest.so/models"
)

// Simulator drives a simulated ledger timeline over an in-memory host
// runtime and records each closed ledger when a database is configured.
type Simulator struct {
	config  *Config
	db      *sql.DB
	host    *host.Sim
	view    ledger.View
	mutator ledger.Mutator
	mu      sync.RWMutex
	stats   *models.Stats
	logger  *logrus.Entry
}

// Config holds the simulation configuration
type Config struct {
	NetworkPassphrase     string
	ProtocolVersion       uint32
	BaseReserve           uint32
	MinTempEntryTTL       uint32
	MinPersistentEntryTTL uint32
	// MaxEntryTTL is in the accessor-facing convention; the mutator
	// reconciles it into the host record at genesis.
	MaxEntryTTL      uint32
	GenesisSequence  uint32
	GenesisTimestamp uint64
	// CloseInterval between automatic ledger closes; 0 means manual only.
	CloseInterval time.Duration
	LogLevel      string
}

func NewSimulator(cfg *Config, db *sql.DB, logger *logrus.Entry) (*Simulator, error) {
	if cfg.LogLevel != "" {
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			logger.Logger.SetLevel(level)
		}
	}

	h := host.NewSim(logger)
	sim := &Simulator{
		config:  cfg,
		db:      db,
		host:    h,
		view:    ledger.NewView(h),
		mutator: ledger.NewMutator(h),
		logger:  logger,
		stats:   &models.Stats{StartTime: time.Now()},
	}

	if err := sim.seedGenesis(); err != nil {
		return nil, fmt.Errorf("failed to seed genesis ledger: %w", err)
	}
	return sim, nil
}

// seedGenesis installs the configured genesis record. The TTL cap goes
// through SetMaxEntryTTL so the stored value follows the host convention.
func (s *Simulator) seedGenesis() error {
	genesis := ledger.Info{
		ProtocolVersion:       s.config.ProtocolVersion,
		SequenceNumber:        s.config.GenesisSequence,
		Timestamp:             s.config.GenesisTimestamp,
		NetworkID:             ledger.NetworkIDFromPassphrase(s.config.NetworkPassphrase),
		BaseReserve:           s.config.BaseReserve,
		MinTempEntryTTL:       s.config.MinTempEntryTTL,
		MinPersistentEntryTTL: s.config.MinPersistentEntryTTL,
	}
	if err := s.mutator.Set(genesis); err != nil {
		return err
	}
	if err := s.mutator.SetMaxEntryTTL(s.config.MaxEntryTTL); err != nil {
		return err
	}
	s.setCurrentSequence(genesis.SequenceNumber)
	s.logger.Infof("Seeded genesis ledger %d on %q", genesis.SequenceNumber, s.config.NetworkPassphrase)
	return nil
}

func (s *Simulator) Host() *host.Sim { return s.host }

func (s *Simulator) View() ledger.View { return s.view }

func (s *Simulator) Mutator() ledger.Mutator { return s.mutator }

func (s *Simulator) Stats() *models.Stats { return s.stats }

// Start begins closing ledgers on the configured interval. With no interval
// configured the simulator only advances on explicit CloseLedger calls.
func (s *Simulator) Start(ctx context.Context) error {
	if s.config.CloseInterval <= 0 {
		s.logger.Info("No close interval configured; ledgers close on request only")
		return nil
	}
	s.logger.Infof("Closing a ledger every %v", s.config.CloseInterval)
	go s.closeLoop(ctx)
	return nil
}

func (s *Simulator) closeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.CloseInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Context cancelled, stopping ledger close loop")
			return
		case <-ticker.C:
			if _, err := s.CloseLedger(uint64(s.config.CloseInterval / time.Second)); err != nil {
				s.logger.Errorf("Failed to close ledger: %v", err)
			}
		}
	}
}

// CloseLedger closes the next simulated ledger, moving the close time forward
// by dt seconds, and returns its snapshot.
func (s *Simulator) CloseLedger(dt uint64) (models.LedgerSnapshot, error) {
	seq, err := s.host.AdvanceLedger(dt)
	if err != nil {
		return models.LedgerSnapshot{}, fmt.Errorf("failed to advance ledger: %w", err)
	}
	info, err := s.host.Snapshot()
	if err != nil {
		return models.LedgerSnapshot{}, fmt.Errorf("failed to read ledger %d: %w", seq, err)
	}
	snapshot := models.SnapshotFromInfo(info)
	if s.db != nil {
		if err := s.storeSnapshot(snapshot); err != nil {
			return models.LedgerSnapshot{}, fmt.Errorf("failed to store ledger %d: %w", seq, err)
		}
	}
	s.setCurrentSequence(seq)
	s.incrementLedgersClosed()
	s.logger.Infof("Closed ledger %d at %s", seq, snapshot.ClosedAt.Format(time.RFC3339))
	return snapshot, nil
}

// Apply replaces the current ledger record wholesale and persists the result.
func (s *Simulator) Apply(info ledger.Info) (models.LedgerSnapshot, error) {
	if err := s.mutator.Set(info); err != nil {
		return models.LedgerSnapshot{}, err
	}
	snapshot := models.SnapshotFromInfo(info)
	if s.db != nil {
		if err := s.storeSnapshot(snapshot); err != nil {
			return models.LedgerSnapshot{}, fmt.Errorf("failed to store ledger %d: %w", info.SequenceNumber, err)
		}
	}
	s.setCurrentSequence(info.SequenceNumber)
	s.incrementMutationCount()
	return snapshot, nil
}

// Stats helpers
func (s *Simulator) setCurrentSequence(seq uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.CurrentSequence = seq
}

func (s *Simulator) incrementMutationCount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.MutationCount++
}

func (s *Simulator) incrementLedgersClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.LedgersClosed++
	s.stats.LastCloseTime = time.Now()
	elapsed := time.Since(s.stats.StartTime).Seconds()
	if elapsed > 0 {
		s.stats.CloseRate = float64(s.stats.LedgersClosed) / elapsed
	}
}

// DB helpers
func (s *Simulator) storeSnapshot(snapshot models.LedgerSnapshot) error {
	_, err := s.db.Exec(`
		INSERT INTO ledger_snapshots (sequence, protocol_version, closed_at,
			network_id, base_reserve, min_temp_entry_ttl,
			min_persistent_entry_ttl, max_entry_ttl)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (sequence) DO UPDATE SET
			protocol_version = EXCLUDED.protocol_version,
			closed_at = EXCLUDED.closed_at,
			network_id = EXCLUDED.network_id,
			base_reserve = EXCLUDED.base_reserve,
			min_temp_entry_ttl = EXCLUDED.min_temp_entry_ttl,
			min_persistent_entry_ttl = EXCLUDED.min_persistent_entry_ttl,
			max_entry_ttl = EXCLUDED.max_entry_ttl`,
		snapshot.Sequence, snapshot.ProtocolVersion, snapshot.ClosedAt,
		snapshot.NetworkID, snapshot.BaseReserve, snapshot.MinTempEntryTTL,
		snapshot.MinPersistentEntryTTL, snapshot.MaxEntryTTL)
	return err
}
