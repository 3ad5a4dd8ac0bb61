// SPDX-License-Identifier: EPL-2.0

package shout

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid detector config")
	ErrUnknownPolicy = errors.New("unknown threshold policy")
)
