// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ava-labs/willvm/client"
)

var fundCmd = &cobra.Command{
	Use:   "fund [options] <amount> [address]",
	Short: "Credits an account, by default the caller's will",
	Long: `
Credits <amount> to [address]. Without an address the
will account of the loaded key is funded.

$ will-cli fund 1000000

`,
	RunE: fundFunc,
}

func fundFunc(cmd *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("expected 1 or 2 arguments, got %d", len(args))
	}
	amount, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return err
	}

	cli := client.New(uri, requestTimeout)
	var addr solana.PublicKey
	if len(args) == 2 {
		addr, err = solana.PublicKeyFromBase58(args[1])
	} else {
		var priv solana.PrivateKey
		priv, err = loadKey(privateKeyFile)
		if err != nil {
			return err
		}
		addr, err = cli.DeriveAddress(priv.PublicKey())
	}
	if err != nil {
		return err
	}

	bal, err := cli.Fund(addr, amount)
	if err != nil {
		return err
	}
	color.Green("funded %s with %d (balance=%d)", addr, amount, bal)
	return nil
}
