// README: Shared identifier value object used across modules.
package types

import "github.com/google/uuid"

type ID string

// NewID returns a random UUIDv4 identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

// Valid reports whether the value parses as a UUID.
func Valid(id ID) bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}
