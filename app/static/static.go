// Package static embeds the icons referenced by rendered pages.
package static

import "embed"

//go:embed *.svg
var FS embed.FS
