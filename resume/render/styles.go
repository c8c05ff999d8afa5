package render

import "resume-builder/resume/model"

const (
	// ReferenceWidth is the full page width (A4 at 96 DPI) the layout is designed for.
	ReferenceWidth = 794.0
	// PhotoSize is the rendered photo edge length in reference units.
	PhotoSize = 100
	// DefaultRuleColor is used for separators when the record sets no accent color.
	DefaultRuleColor = "#e5e7eb"
	// DefaultBadgeColor fills skill badges when the record sets no accent color.
	DefaultBadgeColor = "#000000"
	// MutedTextColor colors the locality/contact line.
	MutedTextColor = "#6b7280"
)

// PhotoRadius maps a border style to the photo corner radius.
func PhotoRadius(style model.BorderStyle) string {
	switch style.Effective() {
	case model.BorderSquare:
		return "0px"
	case model.BorderSquircle:
		return "50%"
	default:
		return "10%"
	}
}

// BadgeRadius maps a border style to the skill badge corner radius.
func BadgeRadius(style model.BorderStyle) string {
	switch style.Effective() {
	case model.BorderSquare:
		return "0px"
	case model.BorderSquircle:
		return "50%"
	default:
		return "8px"
	}
}

func ruleColor(colorHex string) string {
	if colorHex == "" {
		return DefaultRuleColor
	}
	return colorHex
}

func badgeColor(colorHex string) string {
	if colorHex == "" {
		return DefaultBadgeColor
	}
	return colorHex
}
