package excelwriter

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/image/colornames"
)

var ErrUnknownColor = errors.New("unknown color")

// legacyPalette holds the named colors of the classic 56-color workbook palette. Keys are
// normalized the same way as lookups.
var legacyPalette = map[string]string{
	"aqua":           "33CCCC",
	"black":          "000000",
	"blue":           "0000FF",
	"bluegray":       "666699",
	"brightgreen":    "00FF00",
	"brown":          "993300",
	"coral":          "FF8080",
	"cyanega":        "00FFFF",
	"darkblue":       "000080",
	"darkblueega":    "000080",
	"darkgreen":      "003300",
	"darkgreenega":   "008000",
	"darkpurple":     "660066",
	"darkred":        "800000",
	"darkredega":     "800000",
	"darkteal":       "003366",
	"darkyellow":     "808000",
	"gold":           "FFCC00",
	"grayega":        "808080",
	"gray25":         "C0C0C0",
	"gray40":         "969696",
	"gray50":         "808080",
	"gray80":         "333333",
	"green":          "008000",
	"iceblue":        "CCCCFF",
	"indigo":         "333399",
	"ivory":          "FFFFCC",
	"lavender":       "CC99FF",
	"lightblue":      "3366FF",
	"lightgreen":     "CCFFCC",
	"lightorange":    "FF9900",
	"lightturquoise": "CCFFFF",
	"lightyellow":    "FFFF99",
	"lime":           "99CC00",
	"magentaega":     "FF00FF",
	"oceanblue":      "0066CC",
	"oliveega":       "808000",
	"olivegreen":     "333300",
	"orange":         "FF6600",
	"paleblue":       "99CCFF",
	"periwinkle":     "9999FF",
	"pink":           "FF00FF",
	"plum":           "993366",
	"purpleega":      "800080",
	"red":            "FF0000",
	"rose":           "FF99CC",
	"seagreen":       "339966",
	"silverega":      "C0C0C0",
	"skyblue":        "00CCFF",
	"tan":            "FFCC99",
	"teal":           "008080",
	"tealega":        "008080",
	"turquoise":      "00FFFF",
	"violet":         "800080",
	"white":          "FFFFFF",
	"yellow":         "FFFF00",
}

// ResolveColor turns a color name or hex code into an upper-case RRGGBB string.
// Accepted: "#RRGGBB", "RRGGBB", legacy palette names ("gray25", "ocean_blue") and
// CSS color names ("tomato"). Case, spaces, underscores and grey/gray are ignored.
func ResolveColor(name string) (string, error) {
	s := strings.TrimSpace(name)
	if hex, ok := parseHex(s); ok {
		return hex, nil
	}

	key := strings.ToLower(s)
	key = strings.NewReplacer("_", "", " ", "", "-", "", "grey", "gray").Replace(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownColor)
	}
	if hex, ok := legacyPalette[key]; ok {
		return hex, nil
	}
	if c, ok := colornames.Map[key]; ok {
		return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B), nil
	}
	// CSS spells some gray variants with "grey" only.
	if c, ok := colornames.Map[strings.ReplaceAll(key, "gray", "grey")]; ok {
		return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

func parseHex(s string) (string, bool) {
	hasHash := strings.HasPrefix(s, "#")
	s = strings.TrimPrefix(s, "#")
	if len(s) == 8 && hasHash {
		// #AARRGGBB
		s = s[2:]
	}
	if len(s) != 6 {
		return "", false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	return strings.ToUpper(s), true
}
