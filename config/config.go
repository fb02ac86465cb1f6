package config

import (
	"log"
	"time"

	"github.com/spf13/viper"

	"github.com/daccred/ledgersim.attest.so/ledger"
)

var config *viper.Viper

// Init is an exported method that takes the environment starts the viper
// (external lib) and returns the configuration struct.
func Init(env string) {
	var err error
	config = viper.New()
	config.SetConfigType("yaml")
	config.SetConfigName("default")
	config.AddConfigPath("config/")
	err = config.ReadInConfig()
	if err != nil {
		log.Fatal("error on parsing default configuration file")
	}

	// Map environment names to config files
	configName := env
	switch env {
	case "development":
		configName = "testnet"
	case "production":
		configName = "mainnet"
		// Keep other environments as-is (e.g., "test")
	}

	envConfig := viper.New()
	envConfig.SetConfigType("yaml")
	envConfig.AddConfigPath("config/")
	envConfig.SetConfigName(configName)
	err = envConfig.ReadInConfig()
	if err != nil {
		log.Fatalf("error on parsing %s configuration file: %v", configName, err)
	}

	config.MergeConfigMap(envConfig.AllSettings())
}

func GetConfig() *viper.Viper {
	return config
}

// NetworkPassphrase returns the passphrase of the simulated network.
func NetworkPassphrase() string {
	return config.GetString("network.passphrase")
}

// CloseInterval returns the automatic ledger close interval. Zero means
// ledgers close only on explicit advance requests.
func CloseInterval() time.Duration {
	return time.Duration(config.GetInt64("simulator.close_interval_seconds")) * time.Second
}

// LedgerInfo materializes the genesis ledger record from the loaded profile.
// The max entry TTL key is in the accessor-facing convention and is expected
// to be installed through the mutator, which reconciles it to the host
// convention.
func LedgerInfo() ledger.Info {
	return ledger.Info{
		ProtocolVersion:       config.GetUint32("ledger.protocol_version"),
		SequenceNumber:        config.GetUint32("ledger.genesis_sequence"),
		Timestamp:             config.GetUint64("ledger.genesis_timestamp"),
		NetworkID:             ledger.NetworkIDFromPassphrase(NetworkPassphrase()),
		BaseReserve:           config.GetUint32("ledger.base_reserve"),
		MinTempEntryTTL:       config.GetUint32("ledger.min_temp_entry_ttl"),
		MinPersistentEntryTTL: config.GetUint32("ledger.min_persistent_entry_ttl"),
	}
}

// MaxEntryTTL returns the configured TTL cap in the accessor-facing
// convention (current ledger excluded).
func MaxEntryTTL() uint32 {
	return config.GetUint32("ledger.max_entry_ttl")
}
