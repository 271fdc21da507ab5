// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/willvm/chain"
	"github.com/ava-labs/willvm/client"
)

var setCmd = &cobra.Command{
	Use:   "set [options] <name:identity:share>...",
	Short: "Replaces the beneficiaries of the caller's will",
	Long: `
Issues "SetInheritance" which replaces the whole beneficiary
list and pushes the release deadline forward.

Shares are weights; each beneficiary later receives
floor(balance / total) * share. With no arguments every
beneficiary is removed.

$ will-cli set alice:<alice-key>:7500 bob:<bob-key>:2500
<<COMMENT
success
COMMENT

# Only the owner of the will may update it.
$ will-cli set mallory:<mallory-key>:10000 --private-key-file=.different-key
<<COMMENT
error
COMMENT

`,
	RunE: setFunc,
}

func setFunc(cmd *cobra.Command, args []string) error {
	priv, err := loadKey(privateKeyFile)
	if err != nil {
		return err
	}
	bs := make([]*chain.Beneficiary, len(args))
	for i, arg := range args {
		bs[i], err = parseBeneficiary(arg)
		if err != nil {
			return err
		}
	}

	cli := client.New(uri, requestTimeout)
	opts := []client.OpOption{client.WithInfo()}
	if verbose {
		opts = append(opts, client.WithVerbose())
	}
	res, err := client.SetInheritance(cli, priv.PublicKey(), bs, opts...)
	if err != nil {
		return err
	}
	color.Green("set %d beneficiaries (txId=%s)", len(bs), res.TxID)
	return nil
}
