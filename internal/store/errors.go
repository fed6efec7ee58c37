package store

import "errors"

var (
	// ErrNotFound indica que el registro no existe.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicate indica violación de unicidad (p.ej. email ya registrado).
	ErrDuplicate = errors.New("store: duplicate")
)
