package domain

import "errors"

// Sentinel errors shared across the domain. Services return these so the
// delivery layer can map them to friendly user-facing replies instead of
// surfacing raw storage or gateway failures.
var (
	// ErrNotFound is returned when a looked-up entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the acting user lacks the role
	// required for an operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned for inputs that violate an operation's
	// contract, e.g. template and explicit roles passed together.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists is returned when a uniqueness constraint would be
	// violated, e.g. a duplicate template name within a guild.
	ErrAlreadyExists = errors.New("already exists")
	// ErrTemplateNotFound is returned when a named role template does not
	// exist in the guild.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrNoRolesResolved is returned when neither the template nor the
	// explicit role list yields any role names.
	ErrNoRolesResolved = errors.New("no roles resolved")
	// ErrInvalidDateTime is returned for unparsable or calendar-invalid
	// event date strings.
	ErrInvalidDateTime = errors.New("invalid date or time")
	// ErrMalformedInput is returned when slot numbers cannot be parsed.
	ErrMalformedInput = errors.New("malformed input")
	// ErrNoValidSlots is returned when none of the requested slots exist
	// and are unoccupied.
	ErrNoValidSlots = errors.New("no valid slots")
	// ErrAlreadySubscribed is returned when a subscriber/creator pair
	// already exists.
	ErrAlreadySubscribed = errors.New("already subscribed")
	// ErrNotEventCreator is returned when subscribing to a user who does
	// not hold the event-creator role.
	ErrNotEventCreator = errors.New("not an event creator")
)
