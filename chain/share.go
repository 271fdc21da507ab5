// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"
	"math/bits"
)

// ComputeShare scans the beneficiaries once. [total] is the sum of every
// share; [index] is the first entry of [claimant] that is still unclaimed.
// Duplicate registrations of the same identity are drained one per claim.
func ComputeShare(r *WillRecord, claimant string) (share uint64, total uint64, index int, err error) {
	index = -1
	for i, b := range r.Beneficiaries {
		total += uint64(b.Share)
		if index == -1 && b.Share > 0 && b.Identity == claimant {
			share = uint64(b.Share)
			index = i
		}
	}
	if index == -1 {
		return 0, total, -1, fmt.Errorf("%w: %s", ErrNoShare, claimant)
	}
	return share, total, index, nil
}

// ShareAmount is floor(balance / total) * share. The division remainder stays
// in the account.
func ShareAmount(balance uint64, share uint64, total uint64) (uint64, error) {
	if total == 0 {
		return 0, ErrDivisionByZero
	}
	hi, amount := bits.Mul64(balance/total, share)
	if hi != 0 {
		return 0, ErrBalanceOverflow
	}
	return amount, nil
}

// transfer moves [amount] between two balances, rejecting underflow of the
// source and overflow of the destination.
func transfer(from uint64, to uint64, amount uint64) (uint64, uint64, error) {
	newFrom, borrow := bits.Sub64(from, amount, 0)
	if borrow != 0 {
		return 0, 0, fmt.Errorf("%w: balance %d, need %d", ErrInsufficientBalance, from, amount)
	}
	newTo, carry := bits.Add64(to, amount, 0)
	if carry != 0 {
		return 0, 0, ErrBalanceOverflow
	}
	return newFrom, newTo, nil
}
