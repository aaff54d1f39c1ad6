// Package models holds the GORM table mappings. Domain types carry no ORM
// tags; each model converts to and from its domain type with ToDomain and
// FromDomain (or a ...ModelFromDomain constructor).
package models
