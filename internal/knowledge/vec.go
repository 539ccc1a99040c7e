//go:build sqlite_vec && cgo

package knowledge

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Registers the sqlite-vec extension with the mattn/go-sqlite3 driver
	// so index databases can use vector SQL functions when available.
	vec.Auto()
}
