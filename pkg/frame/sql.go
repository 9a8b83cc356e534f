package frame

import (
	"database/sql"
	"fmt"
)

// FromRows drains rows into a frame, one column per result column. rows is not closed.
func FromRows(rows *sql.Rows) (*Frame, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	cols := make([]column, len(names))
	for i, n := range names {
		cols[i].name = n
	}

	raw := make([]interface{}, len(names))
	dest := make([]interface{}, len(names))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range raw {
			cols[i].values = append(cols[i].values, normalize(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return fromColumns(cols)
}
