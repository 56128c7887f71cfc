package crypto

import "github.com/google/uuid"

// IDGenerator produces opaque unique identifiers, used for the jti
// claim on issued tokens. The seam lets tests pin ids.
type IDGenerator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random v4 UUIDs. The error return exists for
// the interface; this implementation cannot fail.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	return uuid.NewString(), nil
}
