package export

import (
	"regexp"
	"strings"
)

// RunStyle captures the inline run formatting used in the DOCX body.
type RunStyle struct {
	Bold   bool
	Italic bool
	Size   int
	Color  string
}

const (
	HeadingColor = "1F2937"
	NameColor    = "111111"
	MutedColor   = "6B7280"
	HeadingSize  = 28
	NameSize     = 48
	BodySize     = 20
	SmallSize    = 18
)

// StyleMap centralizes the formatting for key resume elements.
var StyleMap = map[string]RunStyle{
	"name": {
		Bold:  true,
		Size:  NameSize,
		Color: NameColor,
	},
	"jobTitle": {
		Bold: true,
		Size: BodySize,
	},
	"contact": {
		Size:  SmallSize,
		Color: MutedColor,
	},
	"sectionHeading": {
		Bold:  true,
		Size:  HeadingSize,
		Color: HeadingColor,
	},
	"entryTitle": {
		Bold: true,
		Size: BodySize,
	},
	"entrySubtitle": {
		Bold: true,
		Size: SmallSize,
	},
	"meta": {
		Italic: true,
		Size:   SmallSize,
	},
	"body": {
		Size: SmallSize,
	},
}

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)

// docxColor converts a CSS hex color to WordprocessingML form. Named colors
// cannot be expressed and fall back to the given default.
func docxColor(css, fallback string) string {
	m := hexColorPattern.FindStringSubmatch(strings.TrimSpace(css))
	if m == nil {
		return fallback
	}
	hex := strings.ToUpper(m[1])
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return hex
}

func themed(name, colorHex string) RunStyle {
	style := StyleMap[name]
	if colorHex != "" {
		style.Color = docxColor(colorHex, style.Color)
	}
	return style
}
