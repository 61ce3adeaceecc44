// Package db opens the run-ledger database kept inside the vault.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	stateDirName  = ".timeglance"
	defaultDBName = "timeglance.db"
)

type Config struct {
	VaultRoot string
}

func dbPath(vaultRoot string) string {
	if vaultRoot == "" {
		vaultRoot = "."
	}
	return filepath.Join(vaultRoot, stateDirName, defaultDBName)
}

// EnsureStateDir creates the tool's state directory inside the vault.
func EnsureStateDir(vaultRoot string) (string, error) {
	path := filepath.Join(vaultRoot, stateDirName)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// Open opens the ledger database, creating the state directory if needed.
func Open(cfg Config) (*sql.DB, error) {
	if _, err := EnsureStateDir(cfg.VaultRoot); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", dbPath(cfg.VaultRoot))
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Path returns the ledger database path for a vault.
func Path(vaultRoot string) string {
	return dbPath(vaultRoot)
}
