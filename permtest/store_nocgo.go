//go:build !cgo

package permtest

// If cgo is not enabled, we will use the modernc.org/sqlite non-cgo sqlite
// driver. It is slower than the sqlite3 cgo driver.

import (
	_ "modernc.org/sqlite"
)

const whichSQLiteDriver = "sqlite"

// See https://www.rockyourcode.com/til-sqlite-foreign-key-support-with-go/
const driverPragmas = `
PRAGMA foreign_keys = ON;
PRAGMA synchronous = OFF;
`
