// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/willvm/client"
)

var activityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity [options]",
	Short: "View recent activity on the ledger",
	RunE:  activityFunc,
}

func init() {
	activityCmd.PersistentFlags().IntVar(
		&activityLimit,
		"limit",
		25,
		"maximum number of entries to print",
	)
}

func activityFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("expected exactly 0 arguments, got %d", len(args))
	}
	cli := client.New(uri, requestTimeout)
	activity, err := cli.Activity(activityLimit)
	if err != nil {
		return err
	}
	client.PPActivity(activity)
	return nil
}
