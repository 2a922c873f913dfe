package models

// LifecycleStatus tags whether a parent record is live or archived.
// A purged record is simply gone: hard delete removes the row and its items.
type LifecycleStatus string

const (
	StatusActive   LifecycleStatus = "active"
	StatusArchived LifecycleStatus = "archived"
)
