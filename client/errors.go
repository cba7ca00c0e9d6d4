package client

import "errors"

var (
	// ErrInvalidVideoID indicates the input could not be resolved to a
	// video identifier; it fails before any network call.
	ErrInvalidVideoID = errors.New("invalid video identifier")
	// ErrExtractionFailed indicates every client identity was exhausted
	// without a usable payload.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrRestricted indicates an explicit platform-side block
	// (age/geo/login/availability).
	ErrRestricted = errors.New("content restricted")
	// ErrEmptyCatalog indicates the payload decoded but yielded no
	// usable streams.
	ErrEmptyCatalog = errors.New("no formats available")
	// ErrNoSuitableFormat indicates selection against an empty catalog.
	ErrNoSuitableFormat = errors.New("no suitable format")
	// ErrTransfer indicates an I/O or integrity failure that survived
	// the retry budget.
	ErrTransfer = errors.New("transfer failed")
)
