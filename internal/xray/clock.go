package xray

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies capture and storage times.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator supplies catalog record IDs.
type IDGenerator interface {
	New() string
}

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }
