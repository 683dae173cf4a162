// SPDX-License-Identifier: EPL-2.0

package assets

import "errors"

var (
	// ErrAssetNotFound is returned for missing files and unknown names.
	ErrAssetNotFound     = errors.New("asset not found")
	ErrUnsupportedFormat = errors.New("no decoder for audio file")
	ErrEmptyClip         = errors.New("audio file has no samples")
)
