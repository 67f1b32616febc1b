//go:build cgo

package permtest

// If cgo is enabled, we will use the mattn cgo sqlite3 driver. It is faster
// than the modernc sqlite driver.

import (
	_ "github.com/mattn/go-sqlite3"
)

const whichSQLiteDriver = "sqlite3"

const driverPragmas = `PRAGMA foreign_keys = ON;`
