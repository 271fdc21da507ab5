// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/willvm/client"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [options] [address]",
	Short: "Reads the balance of an account, by default the loaded key",
	RunE:  balanceFunc,
}

func balanceFunc(cmd *cobra.Command, args []string) error {
	priv, err := loadKey(privateKeyFile)
	if err != nil {
		return err
	}
	addr, err := getOwnerArg(args, priv.PublicKey())
	if err != nil {
		return err
	}

	cli := client.New(uri, requestTimeout)
	a, err := cli.Account(addr)
	if err != nil {
		return err
	}
	color.Blue("%s: balance=%d owner=%s data=%d bytes", addr, a.Balance, a.Owner, len(a.Data))
	return nil
}
