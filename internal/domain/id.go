package domain

import "github.com/google/uuid"

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.New().String()
}

// CheckID returns InvalidID(entity) unless id is a well-formed identifier.
func CheckID(entity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return InvalidID(entity)
	}
	return nil
}
