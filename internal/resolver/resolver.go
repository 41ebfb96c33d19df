// Package resolver provides best-effort validator address to name lookups
// against one or more read-only stores. It never fails an analysis run: any
// store or query problem resolves to "no name".
package resolver

import (
	"database/sql"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const nameQuery = `SELECT name FROM validators WHERE address = ? AND name != '' LIMIT 1`

// Resolver looks names up across its stores in order, returning the first
// non-empty match.
type Resolver struct {
	stores []*sql.DB
}

// Open opens the given SQLite store paths. Paths that fail to open are
// logged and skipped; an empty resolver is valid and resolves nothing.
func Open(paths ...string) *Resolver {
	r := &Resolver{}
	for _, path := range paths {
		db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
		if err != nil {
			slog.Debug("Skipping name store", "path", path, "error", err)
			continue
		}
		r.stores = append(r.stores, db)
	}
	return r
}

// NewFromDB wraps already-open database handles, e.g. for tests.
func NewFromDB(dbs ...*sql.DB) *Resolver {
	return &Resolver{stores: dbs}
}

// Close closes all backing stores.
func (r *Resolver) Close() {
	for _, db := range r.stores {
		_ = db.Close()
	}
}

// Name resolves address to a display name, or "" when no store knows it.
// The address is tried exactly as given, then with an 0x prefix added if
// absent, then with the prefix stripped if present.
func (r *Resolver) Name(address string) string {
	if address == "" {
		return ""
	}

	candidates := []string{address}
	if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
		candidates = append(candidates, address[2:])
	} else {
		candidates = append(candidates, "0x"+address)
	}

	for _, db := range r.stores {
		for _, candidate := range candidates {
			var name string
			err := db.QueryRow(nameQuery, candidate).Scan(&name)
			switch {
			case err == nil && name != "":
				return name
			case err != nil && err != sql.ErrNoRows:
				slog.Debug("Name lookup failed", "address", candidate, "error", err)
			}
		}
	}
	return ""
}

// Func adapts the resolver to the aggregator's NameFunc shape.
func (r *Resolver) Func() func(string) string {
	return r.Name
}
