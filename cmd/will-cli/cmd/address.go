// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/willvm/client"
)

var addressCmd = &cobra.Command{
	Use:   "address [options] [owner]",
	Short: "Prints the will account address of an owner",
	RunE:  addressFunc,
}

func addressFunc(cmd *cobra.Command, args []string) error {
	priv, err := loadKey(privateKeyFile)
	if err != nil {
		return err
	}
	owner, err := getOwnerArg(args, priv.PublicKey())
	if err != nil {
		return err
	}

	cli := client.New(uri, requestTimeout)
	addr, err := cli.DeriveAddress(owner)
	if err != nil {
		return err
	}
	color.Green("owner %s has will account %s", owner, addr)
	return nil
}
