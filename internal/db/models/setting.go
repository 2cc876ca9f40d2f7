// Package models contains database model definitions.
package models

// Setting is a named value blob stored in the database.
// It holds settings that are generated at runtime rather than configured,
// like the token signing key.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:191"`
	Value []byte
}
