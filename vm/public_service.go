// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/willvm/chain"
	"github.com/ava-labs/willvm/storage"
)

type PublicService struct {
	vm *VM
}

type PingReply struct {
	Success bool `serialize:"true" json:"success"`
}

func (svc *PublicService) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	log.Info("ping")
	reply.Success = true
	return nil
}

type OwnerArgs struct {
	Owner solana.PublicKey `json:"owner"`
}

type DeriveAddressReply struct {
	Address   solana.PublicKey `json:"address"`
	ProgramID solana.PublicKey `json:"programId"`
	Seed      string           `json:"seed"`
}

func (svc *PublicService) DeriveAddress(_ *http.Request, args *OwnerArgs, reply *DeriveAddressReply) error {
	addr, err := svc.vm.WillAddress(args.Owner)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.ProgramID = svc.vm.ProgramID()
	reply.Seed = chain.WillSeed
	return nil
}

type CreateWillReply struct {
	Address solana.PublicKey `json:"address"`
	TxID    ids.ID           `json:"txId"`
}

func (svc *PublicService) CreateWill(_ *http.Request, args *OwnerArgs, reply *CreateWillReply) error {
	addr, txID, err := svc.vm.CreateWillAccount(args.Owner)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.TxID = txID
	return nil
}

type FundArgs struct {
	Address solana.PublicKey `json:"address"`
	Amount  uint64           `json:"amount"`
}

type FundReply struct {
	Balance uint64 `json:"balance"`
}

func (svc *PublicService) Fund(_ *http.Request, args *FundArgs, reply *FundReply) error {
	bal, err := svc.vm.Fund(args.Address, args.Amount)
	if err != nil {
		return err
	}
	reply.Balance = bal
	return nil
}

type InvokeArgs struct {
	Caller  solana.PublicKey `json:"caller"`
	Target  solana.PublicKey `json:"target"`
	Payload hexutil.Bytes    `json:"payload"`
}

type InvokeReply struct {
	TxID      ids.ID         `json:"txId"`
	Timestamp int64          `json:"timestamp"`
	Receipt   *chain.Receipt `json:"receipt"`
}

func (svc *PublicService) Invoke(_ *http.Request, args *InvokeArgs, reply *InvokeReply) error {
	res, err := svc.vm.Invoke(args.Caller, args.Target, args.Payload)
	if err != nil {
		return err
	}
	reply.TxID = res.TxID
	reply.Timestamp = res.Timestamp
	reply.Receipt = res.Receipt
	return nil
}

type AccountArgs struct {
	Address solana.PublicKey `json:"address"`
}

type AccountReply struct {
	Owner   solana.PublicKey `json:"owner"`
	Balance uint64           `json:"balance"`
	Data    hexutil.Bytes    `json:"data"`
}

func (svc *PublicService) Account(_ *http.Request, args *AccountArgs, reply *AccountReply) error {
	a, err := svc.vm.Account(args.Address)
	if err != nil {
		return err
	}
	reply.Owner = a.Owner
	reply.Balance = a.Balance
	reply.Data = a.Data
	return nil
}

type WillReply struct {
	Will *WillInfo `json:"will"`
}

func (svc *PublicService) Will(_ *http.Request, args *OwnerArgs, reply *WillReply) error {
	w, err := svc.vm.Will(args.Owner)
	if err != nil {
		return err
	}
	reply.Will = w
	return nil
}

type ActivityArgs struct {
	Limit int `json:"limit"`
}

type ActivityReply struct {
	Activity []*storage.Activity `json:"activity"`
}

func (svc *PublicService) Activity(_ *http.Request, args *ActivityArgs, reply *ActivityReply) error {
	acts, err := svc.vm.Activity(args.Limit)
	if err != nil {
		return err
	}
	reply.Activity = acts
	return nil
}
