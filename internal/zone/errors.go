package zone

import "errors"

// Domain errors for the zone package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, zone.ErrZoneNotFound) {
//	    // handle not found case
//	}
var (
	// ErrZoneNotFound is returned when a zone ID does not exist in the
	// caller's farm. Cross-farm lookups also return this error.
	ErrZoneNotFound = errors.New("zone: not found")

	// ErrZoneExists is returned when creating a zone with an ID that already exists.
	ErrZoneExists = errors.New("zone: already exists")

	// ErrInvalidZone is returned when zone validation fails.
	ErrInvalidZone = errors.New("zone: validation failed")

	// ErrInvalidStatus is returned when a status value is not recognised.
	ErrInvalidStatus = errors.New("zone: invalid status")

	// ErrInvalidValveStatus is returned when a valve status value is not recognised.
	ErrInvalidValveStatus = errors.New("zone: invalid valve status")

	// ErrInvalidSchedule is returned when a schedule entry fails validation.
	ErrInvalidSchedule = errors.New("zone: invalid schedule")
)
