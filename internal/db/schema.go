package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);

CREATE TABLE IF NOT EXISTS containers (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    admin_id   INTEGER NOT NULL REFERENCES users(id),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Container names are unique per admin, exact-string comparison.
CREATE UNIQUE INDEX IF NOT EXISTS idx_containers_admin_name
    ON containers(admin_id, name);

CREATE TABLE IF NOT EXISTS container_members (
    container_id INTEGER NOT NULL REFERENCES containers(id),
    user_id      INTEGER NOT NULL REFERENCES users(id),
    PRIMARY KEY (container_id, user_id)
);

CREATE TABLE IF NOT EXISTS categories (
    id           INTEGER PRIMARY KEY,
    container_id INTEGER NOT NULL REFERENCES containers(id),
    name         TEXT NOT NULL
);

-- Category names are unique per container, case-insensitively.
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_container_name
    ON categories(container_id, name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    container_id INTEGER NOT NULL REFERENCES containers(id),
    category_id  INTEGER NOT NULL REFERENCES categories(id),
    owner        TEXT NOT NULL DEFAULT '',
    name         TEXT NOT NULL,
    serie        TEXT NOT NULL DEFAULT '',
    description  TEXT NOT NULL DEFAULT '',
    value        REAL NOT NULL DEFAULT 0,
    date_created TEXT NOT NULL DEFAULT '',
    date_added   DATETIME NOT NULL,
    location     TEXT NOT NULL DEFAULT '',
    creator      TEXT NOT NULL DEFAULT '',
    tags         TEXT NOT NULL DEFAULT '[]',
    image_path   TEXT NOT NULL DEFAULT 'not-image.png',
    comment      TEXT NOT NULL DEFAULT '',
    condition    TEXT NOT NULL DEFAULT '',
    number       INTEGER NOT NULL DEFAULT 1,
    edition      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_items_container ON items(container_id);
CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
