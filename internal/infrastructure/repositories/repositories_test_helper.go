package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT,
		plan TEXT NOT NULL DEFAULT 'free',
		password_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createNetworkTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE networks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		symbol TEXT,
		is_default BOOLEAN NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		address TEXT NOT NULL,
		address_normalized TEXT NOT NULL,
		network_id TEXT NOT NULL,
		is_primary BOOLEAN NOT NULL DEFAULT 0,
		label TEXT,
		network_metadata BLOB,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE UNIQUE INDEX uniq_wallets_owner_addr_network
		ON wallets (user_id, address_normalized, network_id);`)
	mustExec(t, db, `CREATE UNIQUE INDEX uniq_wallets_owner_primary
		ON wallets (user_id) WHERE is_primary = 1;`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	createUserTable(t, db)
	createNetworkTable(t, db)
	createWalletTable(t, db)
}

func seedUser(t *testing.T, db *gorm.DB, id, email, plan string) {
	mustExec(t, db,
		`INSERT INTO users (id, email, plan, password_hash, created_at, updated_at) VALUES (?, ?, ?, '', ?, ?)`,
		id, email, plan, time.Now().UTC(), time.Now().UTC())
}

func seedNetwork(t *testing.T, db *gorm.DB, id, name string, isDefault, isActive bool) {
	mustExec(t, db,
		`INSERT INTO networks (id, name, is_default, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, isDefault, isActive, time.Now().UTC(), time.Now().UTC())
}
