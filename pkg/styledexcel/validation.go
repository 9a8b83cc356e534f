package styledexcel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/locvowork/excelstyler/pkg/excelformat"
)

const (
	DefaultValidationSuffix = "_valid"
	DefaultErrorStyle       = "red"
)

var (
	ErrInvalidErrorStyle = errors.New("error style must be a color name or a style mapping")
	ErrEmptySuffix       = errors.New("validation suffix must not be empty")
)

// ValidatedTable is a table whose boolean columns can be read and whose columns can be
// dropped in place.
type ValidatedTable interface {
	excelformat.Table
	Bools(col int) ([]bool, error)
	DropColumns(cols ...int) error
}

type validationConfig struct {
	suffix     string
	errorStyle interface{}
	remove     bool
}

// ValidationOption configures ValidationStyles.
type ValidationOption func(*validationConfig)

// WithSuffix sets the name suffix of validation columns. Default "_valid".
func WithSuffix(suffix string) ValidationOption {
	return func(c *validationConfig) { c.suffix = suffix }
}

// WithErrorStyle sets the style of invalid cells: a color name or a style mapping.
// Default "red".
func WithErrorStyle(style interface{}) ValidationOption {
	return func(c *validationConfig) { c.errorStyle = style }
}

// WithRemoveValidationColumns drops the validation columns from the table.
func WithRemoveValidationColumns(remove bool) ValidationOption {
	return func(c *validationConfig) { c.remove = remove }
}

// ValidationStyles builds a matrix marking cell (r, c) with the error style wherever the
// boolean column named c+suffix is false at row r. With removal, every column ending in
// the suffix is dropped from t in one pass and the matrix is shaped to the remaining
// columns.
func ValidationStyles(t ValidatedTable, opts ...ValidationOption) (*Matrix, error) {
	cfg := &validationConfig{suffix: DefaultValidationSuffix, errorStyle: DefaultErrorStyle}
	for _, opt := range opts {
		opt(cfg)
	}
	style, err := NormalizeErrorStyle(cfg.errorStyle)
	if err != nil {
		return nil, err
	}
	if cfg.suffix == "" {
		return nil, ErrEmptySuffix
	}

	names := t.Names()
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[n] = i
	}

	// Final column of every table column once validation columns are gone.
	final := make([]int, len(names))
	var drop []int
	width := 0
	for i, n := range names {
		if cfg.remove && strings.HasSuffix(n, cfg.suffix) {
			final[i] = -1
			drop = append(drop, i)
			continue
		}
		final[i] = width
		width++
	}

	m := NewMatrix(t.Nrow(), width)
	for i, n := range names {
		if strings.HasSuffix(n, cfg.suffix) {
			continue
		}
		v, ok := pos[n+cfg.suffix]
		if !ok {
			continue
		}
		flags, err := t.Bools(v)
		if err != nil {
			return nil, fmt.Errorf("validation column %q: %w", n+cfg.suffix, err)
		}
		for r, valid := range flags {
			if valid {
				continue
			}
			if err := m.Set(r, final[i], style); err != nil {
				return nil, err
			}
		}
	}

	if err := t.DropColumns(drop...); err != nil {
		return nil, err
	}
	return m, nil
}

// NormalizeErrorStyle turns an error style into a descriptor. A string is a fill color:
// "red" becomes {"pattern": {"pattern": "solid_fill", "fore_color": "red"}}. Mappings are
// taken as aspect -> property -> value, including the generic maps YAML decoding yields.
func NormalizeErrorStyle(v interface{}) (excelformat.Descriptor, error) {
	switch s := v.(type) {
	case string:
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: empty color", ErrInvalidErrorStyle)
		}
		return excelformat.Descriptor{
			excelformat.AspectPattern: {"pattern": "solid_fill", "fore_color": s},
		}, nil
	case excelformat.Descriptor:
		return s.Clone(), nil
	case map[string]map[string]interface{}:
		return excelformat.Descriptor(s).Clone(), nil
	case map[string]interface{}:
		d := make(excelformat.Descriptor, len(s))
		for aspect, props := range s {
			p, err := properties(props)
			if err != nil {
				return nil, fmt.Errorf("%w: aspect %q: %v", ErrInvalidErrorStyle, aspect, err)
			}
			d[aspect] = p
		}
		return d, nil
	case map[interface{}]interface{}:
		d := make(excelformat.Descriptor, len(s))
		for aspect, props := range s {
			name, ok := aspect.(string)
			if !ok {
				return nil, fmt.Errorf("%w: aspect key %v", ErrInvalidErrorStyle, aspect)
			}
			p, err := properties(props)
			if err != nil {
				return nil, fmt.Errorf("%w: aspect %q: %v", ErrInvalidErrorStyle, name, err)
			}
			d[name] = p
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrInvalidErrorStyle, v)
}

func properties(v interface{}) (map[string]interface{}, error) {
	switch p := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(p))
		for k, val := range p {
			out[k] = val
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(p))
		for k, val := range p {
			name, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("property key %v is not a string", k)
			}
			out[name] = val
		}
		return out, nil
	}
	return nil, fmt.Errorf("properties must be a mapping, got %T", v)
}
