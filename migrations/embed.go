package migrations

import "embed"

// Files holds the ordered SQL migrations compiled into the binary. The
// numeric filename prefix decides apply order.
//
//go:embed *.sql
var Files embed.FS
