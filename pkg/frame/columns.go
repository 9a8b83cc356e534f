package frame

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// column collects raw values for one column before the series type is known.
type column struct {
	name   string
	values []interface{}
}

// normalize converts driver and reflection values into the few types gota stores.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case int:
		return val
	case int8:
		return int(val)
	case int16:
		return int(val)
	case int32:
		return int(val)
	case int64:
		return int(val)
	case uint:
		return int(val)
	case uint8:
		return int(val)
	case uint16:
		return int(val)
	case uint32:
		return int(val)
	case uint64:
		return int(val)
	case float32:
		return float64(val)
	case float64, bool, string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}

// seriesType picks the narrowest gota type able to hold every non-nil value.
func seriesType(values []interface{}) series.Type {
	var ints, floats, bools, others int
	for _, v := range values {
		switch v.(type) {
		case nil:
		case int:
			ints++
		case float64:
			floats++
		case bool:
			bools++
		default:
			others++
		}
	}
	switch {
	case others > 0:
		return series.String
	case bools > 0 && ints+floats == 0:
		return series.Bool
	case bools > 0:
		return series.String
	case floats > 0:
		return series.Float
	case ints > 0:
		return series.Int
	}
	return series.String
}

func (c column) series() series.Series {
	t := seriesType(c.values)
	vals := c.values
	if t == series.String {
		vals = make([]interface{}, len(c.values))
		for i, v := range c.values {
			if v != nil {
				vals[i] = fmt.Sprint(v)
			}
		}
	}
	return series.New(vals, t, c.name)
}

func fromColumns(cols []column) (*Frame, error) {
	ss := make([]series.Series, len(cols))
	for i, c := range cols {
		ss[i] = c.series()
	}
	df := dataframe.New(ss...)
	if df.Err != nil {
		return nil, fmt.Errorf("build frame: %w", df.Err)
	}
	return New(df), nil
}
