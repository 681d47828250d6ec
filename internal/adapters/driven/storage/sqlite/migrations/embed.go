// Package migrations holds the numbered schema scripts for the lease store.
// Each version has an .up.sql and a .down.sql file; the store applies the
// .up scripts it has not recorded yet, in version order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
