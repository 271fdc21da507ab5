// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/willvm/client"
)

var createWillCmd = &cobra.Command{
	Use:   "create-will [options]",
	Short: "Opens the will account of the loaded key",
	RunE:  createWillFunc,
}

func createWillFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("expected exactly 0 arguments, got %d", len(args))
	}
	priv, err := loadKey(privateKeyFile)
	if err != nil {
		return err
	}

	cli := client.New(uri, requestTimeout)
	addr, txID, err := cli.CreateWill(priv.PublicKey())
	if err != nil {
		return err
	}
	color.Green("created will %s for %s (txId=%s)", addr, priv.PublicKey(), txID)
	return nil
}
