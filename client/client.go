// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package client implements "willvm" client SDK.
package client

import (
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/willvm/storage"
	"github.com/ava-labs/willvm/vm"
)

// Client defines willvm client operations.
type Client interface {
	// Pings the VM.
	Ping() (bool, error)

	// Derives the will account address of an owner.
	DeriveAddress(owner solana.PublicKey) (solana.PublicKey, error)
	// Opens the will account of an owner.
	CreateWill(owner solana.PublicKey) (solana.PublicKey, ids.ID, error)
	// Credits an account and returns its new balance.
	Fund(addr solana.PublicKey, amount uint64) (uint64, error)
	// Runs a raw instruction payload against a will account.
	Invoke(caller, target solana.PublicKey, payload []byte) (*vm.Result, error)

	// Returns the raw account stored under an address.
	Account(addr solana.PublicKey) (*storage.Account, error)
	// Returns the decoded will of an owner.
	Will(owner solana.PublicKey) (*vm.WillInfo, error)
	// Returns the most recent ledger changes, newest first.
	Activity(limit int) ([]*storage.Activity, error)
}

// New creates a new client object.
func New(uri string, reqTimeout time.Duration) Client {
	req := rpc.NewEndpointRequester(
		uri,
		vm.PublicEndpoint,
		vm.Name,
		reqTimeout,
	)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) Ping() (bool, error) {
	resp := new(vm.PingReply)
	err := cli.req.SendRequest(
		"ping",
		nil,
		resp,
	)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (cli *client) DeriveAddress(owner solana.PublicKey) (solana.PublicKey, error) {
	resp := new(vm.DeriveAddressReply)
	if err := cli.req.SendRequest(
		"deriveAddress",
		&vm.OwnerArgs{Owner: owner},
		resp,
	); err != nil {
		return solana.PublicKey{}, err
	}
	return resp.Address, nil
}

func (cli *client) CreateWill(owner solana.PublicKey) (solana.PublicKey, ids.ID, error) {
	resp := new(vm.CreateWillReply)
	if err := cli.req.SendRequest(
		"createWill",
		&vm.OwnerArgs{Owner: owner},
		resp,
	); err != nil {
		return solana.PublicKey{}, ids.Empty, err
	}
	return resp.Address, resp.TxID, nil
}

func (cli *client) Fund(addr solana.PublicKey, amount uint64) (uint64, error) {
	resp := new(vm.FundReply)
	if err := cli.req.SendRequest(
		"fund",
		&vm.FundArgs{Address: addr, Amount: amount},
		resp,
	); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (cli *client) Invoke(caller, target solana.PublicKey, payload []byte) (*vm.Result, error) {
	resp := new(vm.InvokeReply)
	if err := cli.req.SendRequest(
		"invoke",
		&vm.InvokeArgs{Caller: caller, Target: target, Payload: payload},
		resp,
	); err != nil {
		return nil, err
	}
	return &vm.Result{
		TxID:      resp.TxID,
		Timestamp: resp.Timestamp,
		Receipt:   resp.Receipt,
	}, nil
}

func (cli *client) Account(addr solana.PublicKey) (*storage.Account, error) {
	resp := new(vm.AccountReply)
	if err := cli.req.SendRequest(
		"account",
		&vm.AccountArgs{Address: addr},
		resp,
	); err != nil {
		return nil, err
	}
	return &storage.Account{
		Owner:   resp.Owner,
		Balance: resp.Balance,
		Data:    resp.Data,
	}, nil
}

func (cli *client) Will(owner solana.PublicKey) (*vm.WillInfo, error) {
	resp := new(vm.WillReply)
	if err := cli.req.SendRequest(
		"will",
		&vm.OwnerArgs{Owner: owner},
		resp,
	); err != nil {
		return nil, err
	}
	return resp.Will, nil
}

func (cli *client) Activity(limit int) ([]*storage.Activity, error) {
	resp := new(vm.ActivityReply)
	if err := cli.req.SendRequest(
		"activity",
		&vm.ActivityArgs{Limit: limit},
		resp,
	); err != nil {
		return nil, err
	}
	return resp.Activity, nil
}
