// Package static embeds the page's client assets.
package static

import "embed"

// Files is served under /web/static.
//
//go:embed app.js
var Files embed.FS
