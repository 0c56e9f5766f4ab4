// Package data embeds the database initialization scripts.
package data

import (
	_ "embed"
)

// InitdbMariaDBPrivileges grants the service account access to its database.
// ${DB_DATABASE} and ${DB_USER} are expanded before execution.
//
//go:embed initdb/mariadb/001-privileges.sql
var InitdbMariaDBPrivileges string
