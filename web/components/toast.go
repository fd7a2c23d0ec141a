package components

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// ToastVariant sets the toast color.
type ToastVariant string

const (
	ToastInfo    ToastVariant = "info"
	ToastSuccess ToastVariant = "success"
	ToastWarning ToastVariant = "warning"
	ToastError   ToastVariant = "error"
)

var toastClasses = map[ToastVariant]string{
	ToastInfo:    "border-neutral-200 bg-white text-neutral-800",
	ToastSuccess: "border-emerald-200 bg-emerald-50 text-emerald-900",
	ToastWarning: "border-amber-200 bg-amber-50 text-amber-900",
	ToastError:   "border-red-200 bg-red-50 text-red-900",
}

// ToastProps configures Toast.
type ToastProps struct {
	Title       string
	Description string
	Variant     ToastVariant
	// Duration in milliseconds before the toast removes itself. Zero keeps it.
	Duration    int
	Dismissible bool
	Class       string
}

// toastClass merges the base, variant and caller classes. Unknown variants
// fall back to ToastInfo.
func toastClass(p ToastProps) string {
	variant := p.Variant
	if _, ok := toastClasses[variant]; !ok {
		variant = ToastInfo
	}
	return twmerge.Merge(
		"fixed bottom-4 right-4 z-50 max-w-sm rounded-lg border px-4 py-3 text-sm shadow-lg",
		toastClasses[variant],
		p.Class,
	)
}
