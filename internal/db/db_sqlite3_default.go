//go:build !sqlite3_cgo

// The pure-Go driver, used by default. Keeps CGO_ENABLED=0 cross builds
// and the container images working without a C toolchain.

package db

import (
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const (
	driverID   = "ncruces/go-sqlite3"
	driverName = "sqlite3"
)
