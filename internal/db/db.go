package db

import "database/sql"

// DB wraps the shared sql.DB handle so internal packages depend on
// one type instead of passing *sql.DB around.
type DB struct {
	*sql.DB
}
