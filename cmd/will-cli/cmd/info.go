// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/willvm/client"
)

var infoCmd = &cobra.Command{
	Use:   "info [options] [owner]",
	Short: "Reads the will of an owner, by default the loaded key",
	RunE:  infoFunc,
}

func infoFunc(cmd *cobra.Command, args []string) error {
	priv, err := loadKey(privateKeyFile)
	if err != nil {
		return err
	}
	owner, err := getOwnerArg(args, priv.PublicKey())
	if err != nil {
		return err
	}

	cli := client.New(uri, requestTimeout)
	w, err := cli.Will(owner)
	if err != nil {
		return err
	}
	client.PPWill(w)
	return nil
}
