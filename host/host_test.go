package host_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daccred/ledgersim.attest.so/host"
	"github.com/daccred/ledgersim.attest.so/ledger"
)

func testInfo() ledger.Info {
	return ledger.Info{
		ProtocolVersion:       22,
		SequenceNumber:        1000,
		Timestamp:             1_700_000_000,
		NetworkID:             ledger.NetworkIDFromPassphrase("Standalone Network ; February 2017"),
		BaseReserve:           5_000_000,
		MinTempEntryTTL:       16,
		MinPersistentEntryTTL: 4096,
		MaxEntryTTL:           6_312_000,
	}
}

func newSim(t *testing.T) *host.Sim {
	t.Helper()
	h := host.NewSim(logrus.NewEntry(logrus.New()))
	require.NoError(t, h.SetLedgerInfo(testInfo()))
	return h
}

func TestReadsRequireLedgerContext(t *testing.T) {
	h := host.NewSim(logrus.NewEntry(logrus.New()))

	_, err := h.LedgerVersion()
	assert.ErrorIs(t, err, host.ErrNoLedgerContext)
	_, err = h.LedgerSequence()
	assert.ErrorIs(t, err, host.ErrNoLedgerContext)
	_, err = h.MaxLiveUntilLedger()
	assert.ErrorIs(t, err, host.ErrNoLedgerContext)
	_, err = h.LedgerTimestamp()
	assert.ErrorIs(t, err, host.ErrNoLedgerContext)
	_, err = h.LedgerNetworkID()
	assert.ErrorIs(t, err, host.ErrNoLedgerContext)
	err = h.WithMutLedgerInfo(func(*ledger.Info) {})
	assert.ErrorIs(t, err, host.ErrNoLedgerContext)

	// Installing a record opens the context.
	require.NoError(t, h.SetLedgerInfo(testInfo()))
	seq, err := h.LedgerSequence()
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), seq)
}

func TestSealedHostRejectsMutation(t *testing.T) {
	h := host.NewSealed(testInfo(), logrus.NewEntry(logrus.New()))

	assert.ErrorIs(t, h.SetLedgerInfo(testInfo()), host.ErrNotSimulation)
	assert.ErrorIs(t, h.WithMutLedgerInfo(func(*ledger.Info) {}), host.ErrNotSimulation)
	_, err := h.AdvanceLedger(5)
	assert.ErrorIs(t, err, host.ErrNotSimulation)

	ts, err := h.LedgerTimestamp()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_700_000_000), ts)
}

func TestWithMutCommitsOnReturn(t *testing.T) {
	h := newSim(t)

	require.NoError(t, h.WithMutLedgerInfo(func(li *ledger.Info) {
		li.BaseReserve = 123
	}))

	info, err := h.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint32(123), info.BaseReserve)
}

func TestWithMutLeavesPriorStateOnPanic(t *testing.T) {
	h := newSim(t)

	require.Panics(t, func() {
		h.WithMutLedgerInfo(func(li *ledger.Info) {
			li.SequenceNumber = 999_999
			li.BaseReserve = 0
			panic("mutation failed midway")
		})
	})

	info, err := h.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, testInfo(), info, "a failed mutation must not be partially visible")

	// The lock is released on the panic path too.
	require.NoError(t, h.WithMutLedgerInfo(func(li *ledger.Info) {
		li.BaseReserve = 7
	}))
}

func TestSnapshotIsACopy(t *testing.T) {
	h := newSim(t)

	info, err := h.Snapshot()
	require.NoError(t, err)
	info.SequenceNumber = 0
	info.NetworkID[0] ^= 0xff

	again, err := h.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, testInfo(), again)
}

func TestNetworkIDHandle(t *testing.T) {
	h := newSim(t)

	raw, err := h.LedgerNetworkID()
	require.NoError(t, err)
	require.Len(t, raw, ledger.NetworkIDLength)

	// Mutating the returned handle must not reach the stored record.
	raw[0] ^= 0xff
	again, err := h.LedgerNetworkID()
	require.NoError(t, err)
	wantID := testInfo().NetworkID
	assert.Equal(t, wantID[:], again)
}

func TestAdvanceLedger(t *testing.T) {
	h := newSim(t)

	seq, err := h.AdvanceLedger(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(1001), seq)

	info, err := h.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint32(1001), info.SequenceNumber)
	assert.Equal(t, uint64(1_700_000_005), info.Timestamp)
}

func TestMaxLiveUntilLedger(t *testing.T) {
	tests := []struct {
		name        string
		sequence    uint32
		maxEntryTTL uint32
		want        uint32
	}{
		{
			name:        "TTL counts the current ledger",
			sequence:    1000,
			maxEntryTTL: 51,
			want:        1050,
		},
		{
			name:        "Zero TTL pins entries to the current ledger",
			sequence:    1000,
			maxEntryTTL: 0,
			want:        1000,
		},
		{
			name:        "Saturates at the sequence ceiling",
			sequence:    ^uint32(0) - 10,
			maxEntryTTL: 100,
			want:        ^uint32(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := host.NewSim(logrus.NewEntry(logrus.New()))
			info := testInfo()
			info.SequenceNumber = tt.sequence
			info.MaxEntryTTL = tt.maxEntryTTL
			require.NoError(t, h.SetLedgerInfo(info))

			got, err := h.MaxLiveUntilLedger()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
