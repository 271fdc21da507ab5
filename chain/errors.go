// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"
)

var (
	// Decoding
	ErrEmptyInstruction        = errors.New("empty instruction")
	ErrMalformedInstruction    = errors.New("malformed instruction")
	ErrInconsistentInstruction = errors.New("instruction sequences differ in length")
	ErrTrailingBytes           = errors.New("unexpected trailing bytes")
	ErrMalformedRecord         = errors.New("malformed will record")
	ErrInconsistentRecord      = errors.New("will record sequences differ in length")
	ErrUnsupportedVersion      = errors.New("unsupported will record version")

	// Authorization
	ErrUnauthorized     = errors.New("sender is not authorized")
	ErrIncorrectProgram = errors.New("account is not owned by the will program")
	ErrInvalidSeed      = errors.New("invalid address seed")

	// Execution
	ErrNotReleased         = errors.New("will not released yet")
	ErrNoShare             = errors.New("no claimable share")
	ErrDivisionByZero      = errors.New("total shares is zero")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// NotReleasedError is returned while the release deadline has not passed.
// The claimant may retry once [Now] is past [Deadline].
type NotReleasedError struct {
	Deadline int64
	Now      int64
}

func (e *NotReleasedError) Error() string {
	return fmt.Sprintf("%v: will is released at %d, but it is only %d now", ErrNotReleased, e.Deadline, e.Now)
}

func (e *NotReleasedError) Is(target error) bool {
	return target == ErrNotReleased
}
