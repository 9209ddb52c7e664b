// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain types, which carry no ORM tags;
// each model converts to its domain type with ToDomain.
package models
