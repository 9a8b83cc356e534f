package excelwriter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/locvowork/excelstyler/pkg/excelformat"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedStyle = errors.New("unsupported style")

// patternIDs maps fill pattern names to excelize pattern ids. Both the classic names
// ("solid_fill", "fine_dots") and the OOXML names ("solid", "gray125") are accepted.
var patternIDs = map[string]int{
	"no_fill":             0,
	"none":                0,
	"solid_fill":          1,
	"solid":               1,
	"fine_dots":           2,
	"medium_gray":         2,
	"alt_bars":            3,
	"dark_gray":           3,
	"sparse_dots":         4,
	"light_gray":          4,
	"thick_horz_bands":    5,
	"dark_horizontal":     5,
	"thick_vert_bands":    6,
	"dark_vertical":       6,
	"thick_backward_diag": 7,
	"dark_down":           7,
	"thick_forward_diag":  8,
	"dark_up":             8,
	"big_spots":           9,
	"dark_grid":           9,
	"bricks":              10,
	"dark_trellis":        10,
	"thin_horz_bands":     11,
	"light_horizontal":    11,
	"thin_vert_bands":     12,
	"light_vertical":      12,
	"thin_backward_diag":  13,
	"light_down":          13,
	"thin_forward_diag":   14,
	"light_up":            14,
	"squares":             15,
	"light_grid":          15,
	"diamonds":            16,
	"light_trellis":       16,
	"gray125":             17,
	"gray0625":            18,
}

// patternNames is the OOXML name of every excelize pattern id.
var patternNames = []string{
	"none", "solid", "mediumGray", "darkGray", "lightGray", "darkHorizontal",
	"darkVertical", "darkDown", "darkUp", "darkGrid", "darkTrellis", "lightHorizontal",
	"lightVertical", "lightDown", "lightUp", "lightGrid", "lightTrellis", "gray125",
	"gray0625",
}

var borderIDs = map[string]int{
	"no_line":                    0,
	"none":                       0,
	"thin":                       1,
	"medium":                     2,
	"dashed":                     3,
	"dotted":                     4,
	"thick":                      5,
	"double":                     6,
	"hair":                       7,
	"medium_dashed":              8,
	"thin_dash_dotted":           9,
	"dash_dot":                   9,
	"medium_dash_dotted":         10,
	"medium_dash_dot":            10,
	"thin_dash_dot_dotted":       11,
	"dash_dot_dot":               11,
	"medium_dash_dot_dotted":     12,
	"medium_dash_dot_dot":        12,
	"slanted_medium_dash_dotted": 13,
	"slant_dash_dot":             13,
}

// borderNames is the OOXML name of every excelize border style id.
var borderNames = []string{
	"", "thin", "medium", "dashed", "dotted", "thick", "double", "hair", "mediumDashed",
	"dashDot", "mediumDashDot", "dashDotDot", "mediumDashDotDot", "slantDashDot",
}

var borderSides = []string{"left", "top", "right", "bottom"}

var alignments = map[string]string{
	"general":     "general",
	"left":        "left",
	"center":      "center",
	"centre":      "center",
	"right":       "right",
	"fill":        "fill",
	"justify":     "justify",
	"justified":   "justify",
	"distributed": "distributed",
	"top":         "top",
	"bottom":      "bottom",
}

// ExcelizeStyle translates a descriptor into an excelize style. Unknown aspects,
// properties or values are reported as ErrUnsupportedStyle.
func ExcelizeStyle(d excelformat.Descriptor) (*excelize.Style, error) {
	style := &excelize.Style{}
	for aspect, props := range d {
		var err error
		switch aspect {
		case excelformat.AspectFont:
			err = applyFont(style, props)
		case excelformat.AspectPattern:
			err = applyPattern(style, props)
		case excelformat.AspectAlignment:
			err = applyAlignment(style, props)
		case excelformat.AspectBorders:
			err = applyBorders(style, props)
		default:
			err = fmt.Errorf("%w: aspect %q", ErrUnsupportedStyle, aspect)
		}
		if err != nil {
			return nil, err
		}
	}
	return style, nil
}

func applyFont(style *excelize.Style, props map[string]interface{}) error {
	font := &excelize.Font{}
	for k, v := range props {
		switch k {
		case "bold":
			font.Bold = truthy(v)
		case "italic":
			font.Italic = truthy(v)
		case "struck_out", "strike":
			font.Strike = truthy(v)
		case "underline":
			font.Underline = underline(v)
		case "color", "colour", "colour_index":
			c, err := ResolveColor(fmt.Sprint(v))
			if err != nil {
				return fmt.Errorf("font color: %w", err)
			}
			font.Color = c
		case "name":
			font.Family = fmt.Sprint(v)
		case "size":
			n, err := number(v)
			if err != nil {
				return fmt.Errorf("%w: font size %v", ErrUnsupportedStyle, v)
			}
			font.Size = n
		case "height":
			// twentieths of a point
			n, err := number(v)
			if err != nil {
				return fmt.Errorf("%w: font height %v", ErrUnsupportedStyle, v)
			}
			font.Size = n / 20
		default:
			return fmt.Errorf("%w: font property %q", ErrUnsupportedStyle, k)
		}
	}
	style.Font = font
	return nil
}

func applyPattern(style *excelize.Style, props map[string]interface{}) error {
	pattern := -1
	var colors []string
	for k, v := range props {
		switch k {
		case "pattern":
			id, ok := patternID(v)
			if !ok {
				return fmt.Errorf("%w: pattern %v", ErrUnsupportedStyle, v)
			}
			pattern = id
		case "fore_color", "fore_colour", "pattern_fore_colour":
			c, err := ResolveColor(fmt.Sprint(v))
			if err != nil {
				return fmt.Errorf("fill color: %w", err)
			}
			colors = append([]string{c}, colors...)
		case "back_color", "back_colour", "pattern_back_colour":
			c, err := ResolveColor(fmt.Sprint(v))
			if err != nil {
				return fmt.Errorf("fill color: %w", err)
			}
			colors = append(colors, c)
		default:
			return fmt.Errorf("%w: pattern property %q", ErrUnsupportedStyle, k)
		}
	}
	if pattern < 0 {
		pattern = 0
		if len(colors) > 0 {
			pattern = 1
		}
	}
	if pattern == 0 {
		return nil
	}
	style.Fill = excelize.Fill{Type: "pattern", Pattern: pattern, Color: colors}
	return nil
}

func applyAlignment(style *excelize.Style, props map[string]interface{}) error {
	align := &excelize.Alignment{}
	for k, v := range props {
		switch k {
		case "horizontal", "horz":
			a, ok := alignments[strings.ToLower(fmt.Sprint(v))]
			if !ok || a == "top" || a == "bottom" {
				return fmt.Errorf("%w: horizontal alignment %v", ErrUnsupportedStyle, v)
			}
			align.Horizontal = a
		case "vertical", "vert":
			a, ok := alignments[strings.ToLower(fmt.Sprint(v))]
			if !ok || a == "left" || a == "right" || a == "fill" || a == "general" {
				return fmt.Errorf("%w: vertical alignment %v", ErrUnsupportedStyle, v)
			}
			align.Vertical = a
		case "wrap":
			align.WrapText = truthy(v)
		default:
			return fmt.Errorf("%w: alignment property %q", ErrUnsupportedStyle, k)
		}
	}
	style.Alignment = align
	return nil
}

func applyBorders(style *excelize.Style, props map[string]interface{}) error {
	color := ""
	if v, ok := props["color"]; ok {
		c, err := ResolveColor(fmt.Sprint(v))
		if err != nil {
			return fmt.Errorf("border color: %w", err)
		}
		color = c
	}
	for k := range props {
		if k == "color" {
			continue
		}
		known := false
		for _, side := range borderSides {
			if k == side {
				known = true
			}
		}
		if !known {
			return fmt.Errorf("%w: border property %q", ErrUnsupportedStyle, k)
		}
	}
	for _, side := range borderSides {
		v, ok := props[side]
		if !ok {
			continue
		}
		id, ok := borderID(v)
		if !ok {
			return fmt.Errorf("%w: %s border %v", ErrUnsupportedStyle, side, v)
		}
		if id == 0 {
			continue
		}
		style.Border = append(style.Border, excelize.Border{Type: side, Style: id, Color: color})
	}
	return nil
}

func patternID(v interface{}) (int, bool) {
	if n, err := number(v); err == nil {
		id := int(n)
		return id, id >= 0 && id < len(patternNames)
	}
	id, ok := patternIDs[strings.ToLower(fmt.Sprint(v))]
	return id, ok
}

func borderID(v interface{}) (int, bool) {
	if n, err := number(v); err == nil {
		id := int(n)
		return id, id >= 0 && id < len(borderNames)
	}
	id, ok := borderIDs[strings.ToLower(fmt.Sprint(v))]
	return id, ok
}

func underline(v interface{}) string {
	switch val := v.(type) {
	case string:
		switch strings.ToLower(val) {
		case "", "none", "false":
			return ""
		case "double":
			return "double"
		}
		return "single"
	}
	if truthy(v) {
		return "single"
	}
	return ""
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return strings.EqualFold(val, "on")
		}
		return b
	case nil:
		return false
	}
	n, err := number(v)
	return err == nil && n != 0
}

func number(v interface{}) (float64, error) {
	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(val), 64)
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

// styleKey is a canonical key for a descriptor. encoding/json sorts map keys.
func styleKey(d excelformat.Descriptor) string {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprintf("%v", d)
	}
	return string(b)
}
