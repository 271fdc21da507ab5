// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vm hosts the will program: it keeps the account ledger and runs
// every invocation atomically against it.
package vm

import (
	"fmt"
	"math/bits"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/gagliardetto/solana-go"
	log "github.com/inconshreveable/log15"
	"golang.org/x/crypto/sha3"

	"github.com/ava-labs/willvm/chain"
	"github.com/ava-labs/willvm/storage"
	"github.com/ava-labs/willvm/version"
)

// Clock returns the current unix time in seconds.
type Clock func() int64

type Option func(*VM)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(vm *VM) {
		vm.clock = c
	}
}

type VM struct {
	mu sync.Mutex

	config Config
	db     database.Database
	s      storage.Storage
	clock  Clock
	closed bool

	stop        chan struct{}
	stopOnce    sync.Once
	donePrune   chan struct{}
	doneCompact chan struct{}
}

// Result is returned for every accepted invocation.
type Result struct {
	TxID      ids.ID         `json:"txId"`
	Timestamp int64          `json:"timestamp"`
	Receipt   *chain.Receipt `json:"receipt"`
}

func New(db database.Database, cfg Config, opts ...Option) (*VM, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	vm := &VM{
		config: cfg,
		db:     db,
		s:      storage.New(db),
		clock:  func() int64 { return time.Now().Unix() },

		stop:        make(chan struct{}),
		donePrune:   make(chan struct{}),
		doneCompact: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(vm)
	}
	go vm.prune()
	go vm.compact()
	log.Info("initialized will vm", "version", version.Version, "program", cfg.ProgramID)
	return vm, nil
}

func (vm *VM) ProgramID() solana.PublicKey {
	return vm.config.ProgramID
}

// WillAddress derives the will account of [owner] under this VM's program.
func (vm *VM) WillAddress(owner solana.PublicKey) (solana.PublicKey, error) {
	return chain.WillAddress(owner, vm.config.ProgramID)
}

// CreateWillAccount opens the program-owned account derived from [owner] with
// an empty data buffer.
func (vm *VM) CreateWillAccount(owner solana.PublicKey) (solana.PublicKey, ids.ID, error) {
	addr, err := vm.WillAddress(owner)
	if err != nil {
		return solana.PublicKey{}, ids.Empty, err
	}

	var txID ids.ID
	err = vm.update(func(now int64) error {
		_, has, err := storage.GetAccount(vm.s.Accounts(), addr)
		if err != nil {
			return err
		}
		if has {
			return fmt.Errorf("%w: %s", ErrAccountExists, addr)
		}
		if err := storage.PutAccount(vm.s.Accounts(), addr, &storage.Account{Owner: vm.config.ProgramID}); err != nil {
			return err
		}
		txID, err = invocationID(storage.CreateWill, owner, addr, now, nil)
		if err != nil {
			return err
		}
		return storage.AppendActivity(vm.s, &storage.Activity{
			TxID:   txID,
			Tmstmp: now,
			Typ:    storage.CreateWill,
			Sender: owner,
			To:     addr,
			Index:  -1,
		})
	})
	if err != nil {
		return solana.PublicKey{}, ids.Empty, err
	}
	log.Info("created will account", "owner", owner, "address", addr, "txId", txID)
	return addr, txID, nil
}

// Fund credits [amount] to [addr], opening a system-owned account if none
// exists yet. It returns the new balance.
func (vm *VM) Fund(addr solana.PublicKey, amount uint64) (uint64, error) {
	var balance uint64
	err := vm.update(func(now int64) error {
		a, has, err := storage.GetAccount(vm.s.Accounts(), addr)
		if err != nil {
			return err
		}
		if !has {
			a = &storage.Account{Owner: solana.SystemProgramID}
		}
		sum, carry := bits.Add64(a.Balance, amount, 0)
		if carry != 0 {
			return fmt.Errorf("%w: %d + %d", chain.ErrBalanceOverflow, a.Balance, amount)
		}
		a.Balance = sum
		if err := storage.PutAccount(vm.s.Accounts(), addr, a); err != nil {
			return err
		}
		txID, err := invocationID(storage.Fund, solana.SystemProgramID, addr, now, uint64Bytes(amount))
		if err != nil {
			return err
		}
		balance = sum
		return storage.AppendActivity(vm.s, &storage.Activity{
			TxID:   txID,
			Tmstmp: now,
			Typ:    storage.Fund,
			Sender: solana.SystemProgramID,
			To:     addr,
			Amount: amount,
			Index:  -1,
		})
	})
	if err != nil {
		return 0, err
	}
	log.Debug("funded account", "address", addr, "amount", amount, "balance", balance)
	return balance, nil
}

// Invoke runs [payload] against the will account [target] on behalf of
// [caller]. Either both accounts and the activity log are updated, or
// nothing is.
func (vm *VM) Invoke(caller, target solana.PublicKey, payload []byte) (*Result, error) {
	if caller.Equals(target) {
		return nil, ErrSameAccount
	}

	var res *Result
	err := vm.update(func(now int64) error {
		ta, has, err := storage.GetAccount(vm.s.Accounts(), target)
		if err != nil {
			return err
		}
		if !has {
			return fmt.Errorf("%w: %s", ErrAccountMissing, target)
		}
		ca, has, err := storage.GetAccount(vm.s.Accounts(), caller)
		if err != nil {
			return err
		}
		if !has {
			ca = &storage.Account{Owner: solana.SystemProgramID}
		}

		c := &chain.Context{
			ProgramID: vm.config.ProgramID,
			Caller:    &chain.Account{Address: caller, Owner: ca.Owner, Balance: ca.Balance, Data: ca.Data},
			Target:    &chain.Account{Address: target, Owner: ta.Owner, Balance: ta.Balance, Data: ta.Data},
			Now:       now,
		}
		rcpt, err := chain.Process(c, payload)
		if err != nil {
			return err
		}

		ca.Balance, ca.Data = c.Caller.Balance, c.Caller.Data
		ta.Balance, ta.Data = c.Target.Balance, c.Target.Data
		if err := storage.PutAccount(vm.s.Accounts(), caller, ca); err != nil {
			return err
		}
		if err := storage.PutAccount(vm.s.Accounts(), target, ta); err != nil {
			return err
		}

		txID, err := invocationID(storage.Invoke, caller, target, now, payload)
		if err != nil {
			return err
		}
		res = &Result{TxID: txID, Timestamp: now, Receipt: rcpt}
		return storage.AppendActivity(vm.s, &storage.Activity{
			TxID:   txID,
			Tmstmp: now,
			Typ:    storage.Invoke,
			Sender: caller,
			To:     target,
			Opcode: rcpt.Opcode,
			Amount: rcpt.Amount,
			Index:  int32(rcpt.Index),
		})
	})
	if err != nil {
		log.Debug("invocation rejected", "caller", caller, "target", target, "err", err)
		return nil, err
	}
	log.Info("invocation accepted",
		"txId", res.TxID,
		"caller", caller,
		"target", target,
		"opcode", res.Receipt.Opcode,
		"amount", res.Receipt.Amount,
	)
	return res, nil
}

func (vm *VM) Account(addr solana.PublicKey) (*storage.Account, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		return nil, ErrClosed
	}
	a, has, err := storage.GetAccount(vm.s.Accounts(), addr)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrAccountMissing, addr)
	}
	return a, nil
}

// WillInfo is a will account together with its decoded record.
type WillInfo struct {
	Address solana.PublicKey  `json:"address"`
	Balance uint64            `json:"balance"`
	Record  *chain.WillRecord `json:"record"`
}

// Will looks up the will account derived from [owner].
func (vm *VM) Will(owner solana.PublicKey) (*WillInfo, error) {
	addr, err := vm.WillAddress(owner)
	if err != nil {
		return nil, err
	}
	a, err := vm.Account(addr)
	if err != nil {
		return nil, err
	}
	r, err := chain.UnmarshalWillRecord(a.Data)
	if err != nil {
		return nil, err
	}
	return &WillInfo{Address: addr, Balance: a.Balance, Record: r}, nil
}

// Activity returns the most recent ledger changes, newest first.
func (vm *VM) Activity(limit int) ([]*storage.Activity, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		return nil, ErrClosed
	}
	if limit <= 0 || limit > vm.config.ActivityLimit {
		limit = vm.config.ActivityLimit
	}
	return storage.GetActivity(vm.s, limit)
}

// Shutdown stops the background loops and closes the ledger. The database
// passed to New is left open.
func (vm *VM) Shutdown() error {
	vm.stopOnce.Do(func() { close(vm.stop) })
	<-vm.donePrune
	<-vm.doneCompact

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		return nil
	}
	vm.closed = true
	log.Info("shutting down will vm")
	return vm.s.Close()
}

// update runs [f] against buffered storage and commits only if it succeeds.
// Timestamps never move backwards, even if the clock does.
func (vm *VM) update(f func(now int64) error) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		return ErrClosed
	}
	last, err := storage.GetLastTime(vm.s.Meta())
	if err != nil {
		return err
	}
	now := vm.clock()
	if now < last {
		now = last
	}

	if err := f(now); err != nil {
		vm.s.Abort()
		return err
	}
	if err := storage.PutLastTime(vm.s.Meta(), now); err != nil {
		vm.s.Abort()
		return err
	}
	if err := vm.s.Commit(); err != nil {
		log.Error("failed to commit", "err", err)
		vm.s.Abort()
		return err
	}
	return nil
}

func invocationID(typ string, from, to solana.PublicKey, now int64, payload []byte) (ids.ID, error) {
	p := wrappers.Packer{
		Bytes:   make([]byte, 0, len(typ)+2*solana.PublicKeyLength+len(payload)+wrappers.LongLen+wrappers.ShortLen+wrappers.IntLen),
		MaxSize: 1 << 20,
	}
	p.PackStr(typ)
	p.PackFixedBytes(from[:])
	p.PackFixedBytes(to[:])
	p.PackLong(uint64(now))
	p.PackBytes(payload)
	if p.Errored() {
		return ids.Empty, p.Err
	}
	h := sha3.Sum256(p.Bytes)
	return ids.ToID(h[:])
}

func uint64Bytes(v uint64) []byte {
	p := wrappers.Packer{Bytes: make([]byte, 0, wrappers.LongLen), MaxSize: wrappers.LongLen}
	p.PackLong(v)
	return p.Bytes
}
