package postgres

import (
	"strconv"

	"github.com/jackc/pgx/v5"
)

func scanCounts(rows pgx.Rows) (map[string]int, error) {
	out := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}

// small helper to avoid fmt for query assembly.
func itoa(i int) string { return strconv.Itoa(i) }
