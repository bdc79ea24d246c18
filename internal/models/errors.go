package models

import "errors"

var (
	// ErrInvalidQuery is returned when a query or request shape cannot be executed.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnknownField is returned for sort or aggregation fields outside the Field set.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidRecord is returned by loaders for records that break the data model.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrDuplicateRecord is returned by loaders when a (dataset, id) pair repeats.
	ErrDuplicateRecord = errors.New("duplicate record")
)
