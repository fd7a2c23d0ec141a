package settings

import "strings"

// Patch is a partial edit. Nil fields are left untouched.
type Patch struct {
	Text        *string
	Size        *int
	Margin      *int
	ECLevel     *ECLevel
	ColorDark   *string
	ColorLight  *string
	LogoDataURL *string
	ClearLogo   bool
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p.Text == nil && p.Size == nil && p.Margin == nil && p.ECLevel == nil &&
		p.ColorDark == nil && p.ColorLight == nil && p.LogoDataURL == nil && !p.ClearLogo
}

// MarginOnly reports whether p edits nothing but the margin. Margin only
// affects exports, so the preview does not need to be re-rendered.
func (p Patch) MarginOnly() bool {
	return p.Margin != nil && p.Text == nil && p.Size == nil && p.ECLevel == nil &&
		p.ColorDark == nil && p.ColorLight == nil && p.LogoDataURL == nil && !p.ClearLogo
}

// Apply returns s with p applied and normalized. Text is trimmed.
func (s Settings) Apply(p Patch) Settings {
	if p.Text != nil {
		s.Text = strings.TrimSpace(*p.Text)
	}
	if p.Size != nil {
		s.Size = *p.Size
	}
	if p.Margin != nil {
		s.Margin = *p.Margin
	}
	if p.ECLevel != nil {
		s.ECLevel = *p.ECLevel
	}
	if p.ColorDark != nil {
		s.ColorDark = *p.ColorDark
	}
	if p.ColorLight != nil {
		s.ColorLight = *p.ColorLight
	}
	if p.LogoDataURL != nil {
		s.LogoDataURL = *p.LogoDataURL
	}
	if p.ClearLogo {
		s.LogoDataURL = ""
	}
	return s.Normalize()
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }
