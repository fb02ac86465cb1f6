package db

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens the postgres database holding the ledger snapshot history.
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, db.Ping()
}
