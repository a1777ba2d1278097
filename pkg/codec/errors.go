/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package codec

import "github.com/pkg/errors"

var (
	// ErrCorruptEncoding is returned for malformed or truncated input and for
	// back-references to ids that were never assigned.
	ErrCorruptEncoding = errors.New("corrupt encoding")
	// ErrUnknownType is returned when an extended type code has no handler
	// and the registry has no fallback.
	ErrUnknownType = errors.New("unknown extended type")
	// ErrUnsupportedType is returned when encoding a Go value outside the value model.
	ErrUnsupportedType = errors.New("unsupported value type")
)

func corrupt(format string, args ...any) error {
	return errors.Wrapf(ErrCorruptEncoding, format, args...)
}
