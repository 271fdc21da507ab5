// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/inconshreveable/log15"
)

// WillSeed names the will account of an owner. Bumping the version suffix
// moves every owner to a fresh account.
const WillSeed = "solana-will.com/my/v3/1"

// DeriveAddress returns the account address that [owner] controls under
// [programID] for [seed].
func DeriveAddress(owner solana.PublicKey, programID solana.PublicKey, seed string) (solana.PublicKey, error) {
	if len(seed) > solana.MaxSeedLength {
		return solana.PublicKey{}, fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidSeed, len(seed), solana.MaxSeedLength)
	}
	return solana.CreateWithSeed(owner, seed, programID)
}

// WillAddress is the will account of [owner].
func WillAddress(owner solana.PublicKey, programID solana.PublicKey) (solana.PublicKey, error) {
	return DeriveAddress(owner, programID, WillSeed)
}

// Authorize checks that [candidate] is the will account of [caller]. The
// caller identity is assumed to be authenticated by the host already.
func Authorize(candidate solana.PublicKey, caller solana.PublicKey, programID solana.PublicKey) error {
	expected, err := WillAddress(caller, programID)
	if err != nil {
		return err
	}
	if !candidate.Equals(expected) {
		log.Debug("unauthorized will access", "sender", caller, "seed", WillSeed, "expected", expected, "got", candidate)
		return fmt.Errorf("%w: sender %s with seed %q should be %s but got %s", ErrUnauthorized, caller, WillSeed, expected, candidate)
	}
	return nil
}
