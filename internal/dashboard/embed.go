//go:build !dev

package dashboard

import (
	"embed"
	"io/fs"
)

//go:embed dist
var embedded embed.FS

var distFS fs.FS = embedded
