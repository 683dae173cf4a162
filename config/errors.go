// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

// ErrInvalidConfig wraps every load, environment and validation failure.
var ErrInvalidConfig = errors.New("invalid audio config")
