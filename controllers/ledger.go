package controllers

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"

	"github.com/daccred/ledgersim.attest.so/handlers"
	"github.com/daccred/ledgersim.attest.so/host"
	"github.com/daccred/ledgersim.attest.so/models"
)

type LedgerController struct {
	sim        *handlers.Simulator
	db         *sql.DB
	passphrase string
}

func NewLedgerController(sim *handlers.Simulator, db *sql.DB, passphrase string) *LedgerController {
	return &LedgerController{sim: sim, db: db, passphrase: passphrase}
}

func (lc *LedgerController) RegisterRoutes(r *gin.Engine) {
	store := persistence.NewInMemoryStore(time.Minute)

	r.GET("/health", lc.HealthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/ledger", lc.GetCurrentLedger)
		v1.PUT("/ledger", lc.SetLedger)
		v1.POST("/ledger/advance", lc.AdvanceLedger)
		v1.GET("/network", lc.GetNetwork)
		v1.GET("/ledgers", lc.GetLedgers)
		v1.GET("/ledgers/:sequence", lc.GetLedger)
		v1.GET("/stats", cache.CachePage(store, time.Minute, lc.GetStats))
	}
}

func (lc *LedgerController) HealthCheck(c *gin.Context) {
	if _, err := lc.sim.Host().Snapshot(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "No ledger context"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// GetCurrentLedger returns the record a contract invocation would observe now.
func (lc *LedgerController) GetCurrentLedger(c *gin.Context) {
	info, err := lc.sim.Host().Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "No ledger context"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": models.SnapshotFromInfo(info)})
}

// SetLedger replaces the current ledger record wholesale. Only served by a
// simulation-mode host.
func (lc *LedgerController) SetLedger(c *gin.Context) {
	var snapshot models.LedgerSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	info, err := snapshot.Info()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	applied, err := lc.sim.Apply(info)
	if errors.Is(err, host.ErrNotSimulation) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Host is not in simulation mode"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to apply ledger"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": applied})
}

// AdvanceLedger closes the next simulated ledger.
func (lc *LedgerController) AdvanceLedger(c *gin.Context) {
	var req struct {
		Seconds uint64 `json:"seconds"`
	}
	// An empty body means "advance with the default step".
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.Seconds == 0 {
		req.Seconds = 5
	}
	snapshot, err := lc.sim.CloseLedger(req.Seconds)
	if errors.Is(err, host.ErrNotSimulation) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Host is not in simulation mode"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to close ledger"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": snapshot})
}

// GetNetwork returns the simulated network identity.
func (lc *LedgerController) GetNetwork(c *gin.Context) {
	view := lc.sim.View()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"passphrase":       lc.passphrase,
		"network_id":       view.NetworkID().String(),
		"protocol_version": view.ProtocolVersion(),
	}})
}

func (lc *LedgerController) GetLedgers(c *gin.Context) {
	if lc.db == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": "Ledger history is not persisted"})
		return
	}
	limit := c.DefaultQuery("limit", "100")
	offset := c.DefaultQuery("offset", "0")

	rows, err := lc.db.Query(`
		SELECT sequence, protocol_version, closed_at, network_id, base_reserve,
		       min_temp_entry_ttl, min_persistent_entry_ttl, max_entry_ttl
		FROM ledger_snapshots
		ORDER BY sequence DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch ledgers"})
		return
	}
	defer rows.Close()

	var snapshots []models.LedgerSnapshot
	for rows.Next() {
		var s models.LedgerSnapshot
		if err := rows.Scan(&s.Sequence, &s.ProtocolVersion, &s.ClosedAt,
			&s.NetworkID, &s.BaseReserve, &s.MinTempEntryTTL,
			&s.MinPersistentEntryTTL, &s.MaxEntryTTL); err == nil {
			snapshots = append(snapshots, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": snapshots})
}

func (lc *LedgerController) GetLedger(c *gin.Context) {
	if lc.db == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": "Ledger history is not persisted"})
		return
	}
	sequence := c.Param("sequence")
	var s models.LedgerSnapshot
	err := lc.db.QueryRow(`
		SELECT sequence, protocol_version, closed_at, network_id, base_reserve,
		       min_temp_entry_ttl, min_persistent_entry_ttl, max_entry_ttl
		FROM ledger_snapshots WHERE sequence = $1`, sequence).Scan(
		&s.Sequence, &s.ProtocolVersion, &s.ClosedAt, &s.NetworkID,
		&s.BaseReserve, &s.MinTempEntryTTL, &s.MinPersistentEntryTTL, &s.MaxEntryTTL)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Ledger not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch ledger"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": s})
}

func (lc *LedgerController) GetStats(c *gin.Context) {
	stats := *lc.sim.Stats()
	if lc.db != nil {
		lc.db.QueryRow("SELECT COUNT(*) FROM ledger_snapshots").Scan(&stats.LedgersClosed)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
