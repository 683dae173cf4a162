// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

// Play requests that are refused return one of these. None of them is
// fatal: a dropped sound effect is an acceptable outcome and callers may
// ignore the error.
var (
	// ErrNoFreeChannel means every channel of the pool is busy.
	ErrNoFreeChannel = errors.New("no free channel")

	// ErrBelowThreshold means the requested volume is below the minimum
	// audible volume, so no channel was spent on it.
	ErrBelowThreshold = errors.New("volume below audible threshold")

	// ErrOutOfRange means a positional sound is beyond the listening distance.
	ErrOutOfRange = errors.New("sound out of listening range")

	// ErrSingletonActive means a single-instance named sound is still playing.
	ErrSingletonActive = errors.New("named sound already playing")
)

// Invalid references.
var (
	ErrNotFound        = errors.New("named sound not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNilTemplate     = errors.New("template has no clip")
	ErrNoTrack         = errors.New("no music track")
	ErrInvalidOptions  = errors.New("invalid mixer options")
)
