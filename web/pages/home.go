// Package pages holds full-page components.
package pages

import (
	"strconv"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// debounceMillis is the client side pause before edits are sent.
const debounceMillis = 180

// previewURL busts the browser cache whenever the preview is re-rendered.
func previewURL(version uint64) string {
	return "/api/qr?v=" + strconv.FormatUint(version, 10)
}

func statusClass(lowContrast bool) string {
	class := "min-h-[1.25rem] text-sm text-neutral-600"
	if lowContrast {
		return twmerge.Merge(class, "text-amber-700")
	}
	return class
}
