package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"

	"github.com/daccred/ledgersim.attest.so/config"
	"github.com/daccred/ledgersim.attest.so/controllers"
	"github.com/daccred/ledgersim.attest.so/db"
	"github.com/daccred/ledgersim.attest.so/handlers"
	"github.com/daccred/ledgersim.attest.so/server"
)

func main() {
	environment := flag.String("e", "development", "")
	flag.Usage = func() {
		fmt.Println("Usage: server -e {mode}")
		os.Exit(1)
	}
	flag.Parse()

	gotenv.Load()
	config.Init(*environment)

	logger := logrus.WithField("service", "ledgersim")

	var dbConn *sql.DB
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = config.GetConfig().GetString("database.url")
	}
	if databaseURL != "" {
		var err error
		dbConn, err = db.Connect(databaseURL)
		if err != nil {
			logger.Fatalf("failed to connect to database: %v", err)
		}
		defer dbConn.Close()
	} else {
		logger.Warn("No database configured; ledger history will not be persisted")
	}

	genesis := config.LedgerInfo()
	simCfg := &handlers.Config{
		NetworkPassphrase:     config.NetworkPassphrase(),
		ProtocolVersion:       genesis.ProtocolVersion,
		BaseReserve:           genesis.BaseReserve,
		MinTempEntryTTL:       genesis.MinTempEntryTTL,
		MinPersistentEntryTTL: genesis.MinPersistentEntryTTL,
		MaxEntryTTL:           config.MaxEntryTTL(),
		GenesisSequence:       genesis.SequenceNumber,
		GenesisTimestamp:      genesis.Timestamp,
		CloseInterval:         config.CloseInterval(),
		LogLevel:              config.GetConfig().GetString("log.level"),
	}
	sim, err := handlers.NewSimulator(simCfg, dbConn, logger)
	if err != nil {
		logger.Fatalf("failed to create simulator: %v", err)
	}
	if err := sim.Start(context.Background()); err != nil {
		logger.Fatalf("failed to start simulator: %v", err)
	}

	ledgerController := controllers.NewLedgerController(sim, dbConn, config.NetworkPassphrase())
	r := server.NewRouter(ledgerController)

	srv := &server.Server{}
	if err := srv.Run(r); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
