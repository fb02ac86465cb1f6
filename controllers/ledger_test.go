package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daccred/ledgersim.attest.so/handlers"
	"github.com/daccred/ledgersim.attest.so/ledger"
	"github.com/daccred/ledgersim.attest.so/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *handlers.Simulator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &handlers.Config{
		NetworkPassphrase:     network.TestNetworkPassphrase,
		ProtocolVersion:       22,
		BaseReserve:           5_000_000,
		MinTempEntryTTL:       16,
		MinPersistentEntryTTL: 4096,
		MaxEntryTTL:           6_311_999,
		GenesisSequence:       100,
		GenesisTimestamp:      1_700_000_000,
		LogLevel:              "warn",
	}
	sim, err := handlers.NewSimulator(cfg, nil, logrus.NewEntry(logrus.New()))
	require.NoError(t, err)

	r := gin.New()
	NewLedgerController(sim, nil, network.TestNetworkPassphrase).RegisterRoutes(r)
	return r, sim
}

type ledgerResponse struct {
	Success bool                  `json:"success"`
	Data    models.LedgerSnapshot `json:"data"`
}

func TestGetCurrentLedger(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ledgerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint32(100), resp.Data.Sequence)
	assert.Equal(t, uint32(6_312_000), resp.Data.MaxEntryTTL)
	assert.Equal(t, ledger.NetworkIDFromPassphrase(network.TestNetworkPassphrase).String(), resp.Data.NetworkID)
}

func TestAdvanceLedgerEndpoint(t *testing.T) {
	r, sim := newTestRouter(t)

	body := bytes.NewBufferString(`{"seconds": 10}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/advance", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ledgerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint32(101), resp.Data.Sequence)
	assert.Equal(t, uint32(101), sim.View().Sequence())
	assert.Equal(t, uint64(1_700_000_010), sim.View().Timestamp())
}

func TestSetLedgerEndpoint(t *testing.T) {
	r, sim := newTestRouter(t)

	snapshot := models.SnapshotFromInfo(ledger.Info{
		ProtocolVersion:       23,
		SequenceNumber:        9000,
		Timestamp:             1_750_000_000,
		NetworkID:             ledger.NetworkIDFromPassphrase(network.TestNetworkPassphrase),
		BaseReserve:           100,
		MinTempEntryTTL:       16,
		MinPersistentEntryTTL: 4096,
		MaxEntryTTL:           1001,
	})
	payload, err := json.Marshal(snapshot)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/ledger", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint32(9000), sim.View().Sequence())
	assert.Equal(t, uint32(23), sim.View().ProtocolVersion())
}

func TestSetLedgerRejectsBadNetworkID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/ledger",
		bytes.NewBufferString(`{"sequence": 1, "network_id": "abcd"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetNetwork(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/network", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Passphrase      string `json:"passphrase"`
			NetworkID       string `json:"network_id"`
			ProtocolVersion uint32 `json:"protocol_version"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, network.TestNetworkPassphrase, resp.Data.Passphrase)
	assert.Equal(t, ledger.NetworkIDFromPassphrase(network.TestNetworkPassphrase).String(), resp.Data.NetworkID)
	assert.Equal(t, uint32(22), resp.Data.ProtocolVersion)
}

func TestGetLedgersWithoutDatabase(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledgers", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
