package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ParseDurationEnv accepts Go duration syntax ("750ms", "2m") or a bare
// integer meaning seconds. Surrounding quotes left by .env files are ignored.
func ParseDurationEnv(raw string) (time.Duration, error) {
	v := strings.Trim(strings.TrimSpace(raw), `"'`)
	switch {
	case v == "":
		return 0, errors.New("empty duration")
	case strings.Trim(v, "0123456789") == "":
		secs, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("duration %q out of range", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: want e.g. 10s, 5m or whole seconds", v)
	}
	return d, nil
}

// SplitList splits a comma separated env value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsUniqueViolation reports whether err is a unique constraint violation
// from PostgreSQL (SQLSTATE 23505) or SQLite (SQLITE_CONSTRAINT_UNIQUE).
func IsUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
