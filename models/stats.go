package models

import "time"

type Stats struct {
	CurrentSequence uint32    `json:"current_sequence"`
	LedgersClosed   int64     `json:"ledgers_closed"`
	MutationCount   int64     `json:"mutation_count"`
	StartTime       time.Time `json:"start_time"`
	LastCloseTime   time.Time `json:"last_close_time"`
	CloseRate       float64   `json:"close_rate"` // ledgers per second
}
