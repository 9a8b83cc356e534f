package frame

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var ErrNotStructSlice = errors.New("data must be a slice of structs")

// FromStructs builds a frame from a slice of structs (or struct pointers), one column per
// exported field. When expandField names a map field with string keys, that field is
// replaced by one column per key found in any row, keys sorted, at the field's position.
// Rows missing a key get NA.
func FromStructs(data interface{}, expandField string) (*Frame, error) {
	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Slice {
		return nil, ErrNotStructSlice
	}

	elemType := val.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return nil, ErrNotStructSlice
	}

	var keys []string
	if expandField != "" {
		f, ok := elemType.FieldByName(expandField)
		if !ok {
			return nil, fmt.Errorf("field %s not found in struct", expandField)
		}
		if f.Type.Kind() != reflect.Map || f.Type.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("field %s is not a map with string keys", expandField)
		}
		keys = mapKeys(val, expandField)
	}

	// Layout: one entry per output column, either a field index or a map key.
	type source struct {
		field int
		key   string
	}
	var sources []source
	var cols []column
	for i := 0; i < elemType.NumField(); i++ {
		f := elemType.Field(i)
		if f.PkgPath != "" {
			continue
		}
		if f.Name == expandField {
			for _, k := range keys {
				sources = append(sources, source{field: i, key: k})
				cols = append(cols, column{name: k})
			}
			continue
		}
		sources = append(sources, source{field: i})
		cols = append(cols, column{name: f.Name})
	}

	for r := 0; r < val.Len(); r++ {
		item := val.Index(r)
		if item.Kind() == reflect.Ptr {
			if item.IsNil() {
				for i := range cols {
					cols[i].values = append(cols[i].values, nil)
				}
				continue
			}
			item = item.Elem()
		}
		for i, src := range sources {
			fv := item.Field(src.field)
			if expandField != "" && elemType.Field(src.field).Name == expandField {
				var v interface{}
				if !fv.IsNil() {
					key := reflect.ValueOf(src.key).Convert(fv.Type().Key())
					if mv := fv.MapIndex(key); mv.IsValid() {
						v = mv.Interface()
					}
				}
				cols[i].values = append(cols[i].values, normalize(v))
				continue
			}
			cols[i].values = append(cols[i].values, normalize(fv.Interface()))
		}
	}

	return fromColumns(cols)
}

func mapKeys(val reflect.Value, field string) []string {
	seen := make(map[string]bool)
	var keys []string
	for i := 0; i < val.Len(); i++ {
		item := val.Index(i)
		if item.Kind() == reflect.Ptr {
			if item.IsNil() {
				continue
			}
			item = item.Elem()
		}
		m := item.FieldByName(field)
		if m.IsNil() {
			continue
		}
		iter := m.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
