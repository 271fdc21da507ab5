// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/inconshreveable/log15"
)

// Account is the host's view of one account during an invocation.
type Account struct {
	Address solana.PublicKey
	Owner   solana.PublicKey
	Balance uint64
	Data    []byte
}

// Context carries everything a single invocation may read or mutate. The
// host must not run two invocations against the same accounts concurrently.
type Context struct {
	ProgramID solana.PublicKey
	Caller    *Account
	Target    *Account
	Now       int64
}

// Receipt summarizes an accepted invocation.
type Receipt struct {
	Opcode   uint8  `json:"opcode"`
	Amount   uint64 `json:"amount"`
	Index    int    `json:"index"`
	Deadline int64  `json:"deadline"`
}

// transition is the fully computed outcome of an invocation. It is applied to
// the context only after every check has passed.
type transition struct {
	callerBalance uint64
	targetBalance uint64
	record        *WillRecord
}

// Process decodes [payload] and executes it against [c]. On error neither
// account in [c] is modified.
func Process(c *Context, payload []byte) (*Receipt, error) {
	if !c.Target.Owner.Equals(c.ProgramID) {
		log.Debug("account has wrong owner", "account", c.Target.Address, "owner", c.Target.Owner, "program", c.ProgramID)
		return nil, fmt.Errorf("%w: account %s is owned by %s", ErrIncorrectProgram, c.Target.Address, c.Target.Owner)
	}
	ins, err := ParseInstruction(payload)
	if err != nil {
		return nil, err
	}

	rcpt := &Receipt{Opcode: ins.Opcode(), Index: -1}
	var t *transition
	switch ins := ins.(type) {
	case *SetInheritance:
		t, err = setInheritance(c, ins, rcpt)
	case *WithdrawOwn:
		t, err = withdrawOwn(c, ins, rcpt)
	case *WithdrawInheritance:
		t, err = withdrawInheritance(c, rcpt)
	case *Noop:
		return rcpt, nil
	default:
		return nil, fmt.Errorf("%w: unhandled opcode %d", ErrMalformedInstruction, ins.Opcode())
	}
	if err != nil {
		return nil, err
	}

	data, err := t.record.Marshal()
	if err != nil {
		return nil, err
	}
	c.Caller.Balance = t.callerBalance
	c.Target.Balance = t.targetBalance
	c.Target.Data = data
	return rcpt, nil
}

func loadRecord(c *Context) (*WillRecord, error) {
	return UnmarshalWillRecord(c.Target.Data)
}

func setInheritance(c *Context, ins *SetInheritance, rcpt *Receipt) (*transition, error) {
	if err := Authorize(c.Target.Address, c.Caller.Address, c.ProgramID); err != nil {
		return nil, err
	}
	r, err := loadRecord(c)
	if err != nil {
		return nil, err
	}
	r.SchemaVersion = SchemaVersion
	r.ReleaseDeadline = nextDeadline(c.Now)
	r.Beneficiaries = ins.Beneficiaries()

	rcpt.Deadline = r.ReleaseDeadline
	return &transition{
		callerBalance: c.Caller.Balance,
		targetBalance: c.Target.Balance,
		record:        r,
	}, nil
}

func withdrawOwn(c *Context, ins *WithdrawOwn, rcpt *Receipt) (*transition, error) {
	if err := Authorize(c.Target.Address, c.Caller.Address, c.ProgramID); err != nil {
		return nil, err
	}
	r, err := loadRecord(c)
	if err != nil {
		return nil, err
	}
	targetBalance, callerBalance, err := transfer(c.Target.Balance, c.Caller.Balance, ins.Amount)
	if err != nil {
		return nil, err
	}
	// Any owner activity is proof of life.
	r.ReleaseDeadline = nextDeadline(c.Now)

	rcpt.Amount = ins.Amount
	rcpt.Deadline = r.ReleaseDeadline
	return &transition{
		callerBalance: callerBalance,
		targetBalance: targetBalance,
		record:        r,
	}, nil
}

func withdrawInheritance(c *Context, rcpt *Receipt) (*transition, error) {
	r, err := loadRecord(c)
	if err != nil {
		return nil, err
	}
	if err := CheckReleased(r, c.Now); err != nil {
		log.Debug("will not released", "account", c.Target.Address, "deadline", r.ReleaseDeadline, "now", c.Now)
		return nil, err
	}
	share, total, index, err := ComputeShare(r, c.Caller.Address.String())
	if err != nil {
		return nil, err
	}
	amount, err := ShareAmount(c.Target.Balance, share, total)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: share %d of %d rounds to nothing", ErrNoShare, share, total)
	}
	targetBalance, callerBalance, err := transfer(c.Target.Balance, c.Caller.Balance, amount)
	if err != nil {
		return nil, err
	}
	r.Beneficiaries[index].Share = 0

	rcpt.Amount = amount
	rcpt.Index = index
	rcpt.Deadline = r.ReleaseDeadline
	return &transition{
		callerBalance: callerBalance,
		targetBalance: targetBalance,
		record:        r,
	}, nil
}
