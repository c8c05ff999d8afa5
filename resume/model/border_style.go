package model

import "strings"

// BorderStyle controls the corner shape of the photo and skill badges.
type BorderStyle string

const (
	BorderSquare   BorderStyle = "square"
	BorderRound    BorderStyle = "round"
	BorderSquircle BorderStyle = "squircle"
)

// BorderStyles lists the styles in cycling order.
var BorderStyles = []BorderStyle{BorderSquare, BorderRound, BorderSquircle}

// ParseBorderStyle normalizes raw input. An empty value is valid and means unset.
func ParseBorderStyle(raw string) (BorderStyle, bool) {
	style := BorderStyle(strings.ToLower(strings.TrimSpace(raw)))
	if style == "" {
		return "", true
	}
	return style, style.Valid()
}

// Valid reports whether s is one of the enumerated styles.
func (s BorderStyle) Valid() bool {
	return s.index() >= 0
}

// Effective returns the style used for rendering; unset and unknown values render as round.
func (s BorderStyle) Effective() BorderStyle {
	if !s.Valid() {
		return BorderRound
	}
	return s
}

// Next returns the style following s. Unset counts as the first style, so it
// advances to round; an unknown value advances to square.
func (s BorderStyle) Next() BorderStyle {
	current := 0
	if s != "" {
		current = s.index()
	}
	return BorderStyles[(current+1)%len(BorderStyles)]
}

func (s BorderStyle) index() int {
	for i, style := range BorderStyles {
		if style == s {
			return i
		}
	}
	return -1
}
