// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/willvm/chain"
)

func loadKey(path string) (solana.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return solana.PrivateKeyFromBase58(strings.TrimSpace(string(b)))
}

// parseBeneficiary reads "name:identity:share", with share in basis points.
func parseBeneficiary(s string) (*chain.Beneficiary, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("beneficiary %q must be name:identity:share", s)
	}
	if _, err := solana.PublicKeyFromBase58(parts[1]); err != nil {
		return nil, fmt.Errorf("%w: invalid identity %q", err, parts[1])
	}
	share, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid share %q", err, parts[2])
	}
	return &chain.Beneficiary{Name: parts[0], Identity: parts[1], Share: uint16(share)}, nil
}

func getOwnerArg(args []string, self solana.PublicKey) (solana.PublicKey, error) {
	switch len(args) {
	case 0:
		return self, nil
	case 1:
		return solana.PublicKeyFromBase58(args[0])
	default:
		return solana.PublicKey{}, fmt.Errorf("expected at most 1 argument, got %d", len(args))
	}
}
