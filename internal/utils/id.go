package utils

import (
	"github.com/google/uuid"
)

// NewRandomID returns a new unique id (uuid4).
func NewRandomID() string {
	return uuid.New().String()
}
