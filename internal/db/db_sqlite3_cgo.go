//go:build cgo && sqlite3_cgo

// The cgo driver, opt-in via -tags sqlite3_cgo for deployments that want
// the C implementation.

package db

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	driverID   = "mattn/go-sqlite3"
	driverName = "sqlite3"
)
