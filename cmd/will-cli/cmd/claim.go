// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ava-labs/willvm/client"
)

var claimCmd = &cobra.Command{
	Use:   "claim [options] <owner>",
	Short: "Claims the caller's share of a released will",
	Long: `
Issues "WithdrawInheritance" against the will of <owner>.
It fails until the release deadline has passed, and each
beneficiary entry pays out at most once.

$ will-cli claim <owner-key>

`,
	RunE: claimFunc,
}

func claimFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly 1 argument, got %d", len(args))
	}
	owner, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return err
	}
	priv, err := loadKey(privateKeyFile)
	if err != nil {
		return err
	}

	cli := client.New(uri, requestTimeout)
	var opts []client.OpOption
	if verbose {
		opts = append(opts, client.WithVerbose(), client.WithInfo())
	}
	res, err := client.WithdrawInheritance(cli, priv.PublicKey(), owner, opts...)
	if err != nil {
		return err
	}
	color.Green("claimed %d as beneficiary #%d (txId=%s)", res.Receipt.Amount, res.Receipt.Index, res.TxID)
	return nil
}
