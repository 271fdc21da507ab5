// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"time"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/willvm/chain"
	"github.com/ava-labs/willvm/vm"
)

// SetInheritance replaces the beneficiary list of [owner]'s will and pushes
// its release deadline forward.
func SetInheritance(cli Client, owner solana.PublicKey, bs []*chain.Beneficiary, opts ...OpOption) (*vm.Result, error) {
	ins := &chain.SetInheritance{
		Names:      make([]string, len(bs)),
		Identities: make([]string, len(bs)),
		Shares:     make([]uint16, len(bs)),
	}
	for i, b := range bs {
		ins.Names[i], ins.Identities[i], ins.Shares[i] = b.Name, b.Identity, b.Share
	}
	return issue(cli, owner, owner, ins, opts...)
}

// WithdrawOwn moves [amount] from [owner]'s will back to the owner.
func WithdrawOwn(cli Client, owner solana.PublicKey, amount uint64, opts ...OpOption) (*vm.Result, error) {
	return issue(cli, owner, owner, &chain.WithdrawOwn{Amount: amount}, opts...)
}

// WithdrawInheritance claims [claimant]'s share of [owner]'s released will.
func WithdrawInheritance(cli Client, claimant solana.PublicKey, owner solana.PublicKey, opts ...OpOption) (*vm.Result, error) {
	return issue(cli, claimant, owner, &chain.WithdrawInheritance{}, opts...)
}

func issue(cli Client, caller solana.PublicKey, owner solana.PublicKey, ins chain.Instruction, opts ...OpOption) (*vm.Result, error) {
	ret := &Op{}
	ret.applyOpts(opts)

	target, err := cli.DeriveAddress(owner)
	if err != nil {
		return nil, err
	}
	payload, err := ins.Marshal()
	if err != nil {
		return nil, err
	}

	if ret.verbose {
		color.Yellow("invoking opcode %d on %s (caller=%s, %d bytes)", ins.Opcode(), target, caller, len(payload))
	}
	res, err := cli.Invoke(caller, target, payload)
	if err != nil {
		return nil, err
	}
	if ret.verbose {
		color.Green("invocation %s accepted (amount=%d)", res.TxID, res.Receipt.Amount)
	}

	if ret.info {
		w, err := cli.Will(owner)
		if err != nil {
			color.Red("cannot get will info %v", err)
			return nil, err
		}
		deadline := time.Unix(w.Record.ReleaseDeadline, 0)
		color.Blue(
			"will %s: balance=%d beneficiaries=%d release=%v",
			w.Address, w.Balance, len(w.Record.Beneficiaries), deadline,
		)
	}
	return res, nil
}

type Op struct {
	verbose bool
	info    bool
}

type OpOption func(*Op)

func (op *Op) applyOpts(opts []OpOption) {
	for _, opt := range opts {
		opt(op)
	}
}

// "true" to print the invocation as it is issued.
func WithVerbose() OpOption {
	return func(op *Op) { op.verbose = true }
}

// "true" to print the will after the invocation is accepted.
func WithInfo() OpOption {
	return func(op *Op) { op.info = true }
}
