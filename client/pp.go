// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"time"

	"github.com/fatih/color"

	"github.com/ava-labs/willvm/chain"
	"github.com/ava-labs/willvm/storage"
	"github.com/ava-labs/willvm/vm"
)

// PPWill pretty-prints a will and each beneficiary's weight.
func PPWill(w *vm.WillInfo) {
	r := w.Record
	color.Blue("will %s: balance=%d version=%d", w.Address, w.Balance, r.SchemaVersion)
	if r.SchemaVersion == 0 {
		color.Yellow("no beneficiaries set")
		return
	}
	release := time.Unix(r.ReleaseDeadline, 0)
	if time.Now().After(release) {
		color.Red("released since %v", release)
	} else {
		color.Green("releases at %v (%v remaining)", release, time.Until(release).Round(time.Second))
	}

	var total uint64
	for _, b := range r.Beneficiaries {
		total += uint64(b.Share)
	}
	for i, b := range r.Beneficiaries {
		color.Yellow(
			"#%d %s (%s): share=%d (%.2f%% of %d, %.2f%% of remaining)",
			i, b.Name, b.Identity, b.Share,
			float64(b.Share)*100/chain.ShareDenominator, chain.ShareDenominator,
			percentOf(uint64(b.Share), total),
		)
	}
}

// PPActivity pretty-prints ledger activity.
func PPActivity(a []*storage.Activity) {
	for _, item := range a {
		switch item.Typ {
		case storage.CreateWill:
			color.Green("%s [%s] created will %s for %s", item.TxID, time.Unix(item.Tmstmp, 0), item.To, item.Sender)
		case storage.Fund:
			color.Yellow("%s [%s] funded %s with %d", item.TxID, time.Unix(item.Tmstmp, 0), item.To, item.Amount)
		case storage.Invoke:
			color.Blue(
				"%s [%s] %s invoked opcode %d on %s (amount=%d index=%d)",
				item.TxID, time.Unix(item.Tmstmp, 0), item.Sender, item.Opcode, item.To, item.Amount, item.Index,
			)
		}
	}
}

func percentOf(part uint64, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
