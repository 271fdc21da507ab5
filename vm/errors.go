// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"
)

var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrAccountExists  = errors.New("account already exists")
	ErrAccountMissing = errors.New("account does not exist")
	ErrSameAccount    = errors.New("caller and target must differ")
	ErrClosed         = errors.New("vm is shut down")
)
