package components

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// ButtonVariant selects a button style.
type ButtonVariant string

const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
	ButtonLink      ButtonVariant = "link"
)

const buttonBase = "inline-flex items-center justify-center gap-2 rounded-md px-3 py-2 text-sm font-medium transition-colors focus:outline-none focus:ring-2 focus:ring-emerald-500 disabled:opacity-50"

var buttonVariants = map[ButtonVariant]string{
	ButtonPrimary:   "bg-emerald-600 text-white hover:bg-emerald-700",
	ButtonSecondary: "border border-neutral-300 bg-white text-neutral-800 hover:bg-neutral-50",
	ButtonLink:      "px-0 py-0 text-xs text-neutral-600 underline hover:text-neutral-900",
}

// ButtonClass merges the base, variant and extra classes. Later classes win
// over conflicting earlier ones.
func ButtonClass(v ButtonVariant, extra ...string) string {
	args := append([]string{buttonBase, buttonVariants[v]}, extra...)
	return twmerge.Merge(args...)
}
