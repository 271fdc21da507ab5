// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/willvm/client"
)

var withdrawCmd = &cobra.Command{
	Use:   "withdraw [options] <amount>",
	Short: "Moves funds from the caller's will back to the caller",
	Long: `
Issues "WithdrawOwn". Any withdrawal, including one of
amount 0, also proves the owner is alive and pushes the
release deadline forward.

$ will-cli withdraw 0

`,
	RunE: withdrawFunc,
}

func withdrawFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly 1 argument, got %d", len(args))
	}
	amount, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return err
	}
	priv, err := loadKey(privateKeyFile)
	if err != nil {
		return err
	}

	cli := client.New(uri, requestTimeout)
	opts := []client.OpOption{client.WithInfo()}
	if verbose {
		opts = append(opts, client.WithVerbose())
	}
	res, err := client.WithdrawOwn(cli, priv.PublicKey(), amount, opts...)
	if err != nil {
		return err
	}
	color.Green("withdrew %d (txId=%s)", res.Receipt.Amount, res.TxID)
	return nil
}
