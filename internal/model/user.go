// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// User represents a registered account.
//
// WHY `json:"-"` ON PasswordHash?
// The dash tag tells encoding/json to NEVER serialize this field. A User can
// be written straight into any API response (login, register, /api/me, the
// author field of a post) and the credential structurally cannot leak.
// This is safer than remembering to strip the field in every handler.
//
// WHY int64 FOR ID?
// The database generates ids (INTEGER PRIMARY KEY AUTOINCREMENT). SQLite
// rowids are 64-bit and database/sql's LastInsertId returns int64, so we use
// int64 end to end rather than converting at every boundary.
type User struct {
	ID           int64  `json:"id"       db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-"        db:"password_hash"` // bcrypt hash, never serialized
}
