package main

import (
	"log"

	"github.com/sirupsen/logrus"
	"github.com/stellar/go/network"

	"github.com/daccred/ledgersim.attest.so/controllers"
	"github.com/daccred/ledgersim.attest.so/handlers"
	"github.com/daccred/ledgersim.attest.so/ledger"
)

func main() {
	log.Println("Testing simulator creation...")
	simCfg := &handlers.Config{
		NetworkPassphrase:     network.TestNetworkPassphrase,
		ProtocolVersion:       22,
		BaseReserve:           5000000,
		MinTempEntryTTL:       16,
		MinPersistentEntryTTL: 4096,
		MaxEntryTTL:           6311999,
		GenesisSequence:       0,
		GenesisTimestamp:      0,
		LogLevel:              "info",
	}

	logger := logrus.WithField("service", "healthcheck")
	sim, err := handlers.NewSimulator(simCfg, nil, logger)
	if err != nil {
		log.Fatalf("failed to create simulator: %v", err)
	}
	log.Println("✅ Simulator created successfully!")

	log.Println("Testing controller creation...")
	ctl := controllers.NewLedgerController(sim, nil, network.TestNetworkPassphrase)
	if ctl == nil {
		log.Fatalf("failed to create controller")
	}
	log.Println("✅ Controller created successfully!")

	log.Println("Testing ledger progression...")
	view := sim.View()
	if got := view.NetworkID(); got != ledger.NetworkIDFromPassphrase(network.TestNetworkPassphrase) {
		log.Fatalf("network id mismatch: %x", got)
	}
	before := view.Sequence()
	snapshot, err := sim.CloseLedger(5)
	if err != nil {
		log.Fatalf("failed to close ledger: %v", err)
	}
	if snapshot.Sequence != before+1 {
		log.Fatalf("expected ledger %d, got %d", before+1, snapshot.Sequence)
	}
	if snapshot.MaxEntryTTL != simCfg.MaxEntryTTL+1 {
		log.Fatalf("stored max entry TTL %d does not include the current ledger", snapshot.MaxEntryTTL)
	}
	log.Printf("✅ Closed ledger %d at %s", snapshot.Sequence, snapshot.ClosedAt)

	log.Println("\n🎉 All checks passed! The simulator is ready to run.")
	log.Println("\nNext steps:")
	log.Println("1. Run: make build")
	log.Println("2. Run: ./ledgersim.attest.so")
	log.Println("3. Visit: http://localhost:8080/health")
}
