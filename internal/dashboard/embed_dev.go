//go:build dev

package dashboard

import "io/fs"

// distFS is nil in dev builds so the UI can be served from disk by another
// process while the API runs here.
var distFS fs.FS
