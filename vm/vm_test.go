// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/willvm/chain"
	"github.com/ava-labs/willvm/storage"
)

type testClock struct {
	now int64
}

func (c *testClock) Now() int64 { return c.now }

func testKey(i byte) solana.PublicKey {
	b := make([]byte, solana.PublicKeyLength)
	for j := range b {
		b[j] = i + byte(j)
	}
	return solana.PublicKeyFromBytes(b)
}

func newTestVM(t *testing.T, clk *testClock) *VM {
	cfg := Config{}
	cfg.SetDefaults()
	vm, err := New(memdb.New(), cfg, WithClock(clk.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = vm.Shutdown() })
	return vm
}

func mustMarshal(t *testing.T, ins chain.Instruction) []byte {
	b, err := ins.Marshal()
	require.NoError(t, err)
	return b
}

func TestNewInvalidConfig(t *testing.T) {
	t.Parallel()

	tt := []Config{
		{ActivityLimit: 1},
		{ProgramID: DefaultProgramID},
	}
	for i, cfg := range tt {
		if _, err := New(memdb.New(), cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("#%d: expected %v, got %v", i, ErrInvalidConfig, err)
		}
	}
}

func TestInheritanceLifecycle(t *testing.T) {
	t.Parallel()

	clk := &testClock{now: 1_000}
	vm := newTestVM(t, clk)
	owner, alice, bob := testKey(1), testKey(2), testKey(3)

	addr, _, err := vm.CreateWillAccount(owner)
	require.NoError(t, err)
	_, _, err = vm.CreateWillAccount(owner)
	if !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected %v, got %v", ErrAccountExists, err)
	}

	bal, err := vm.Fund(addr, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), bal)

	res, err := vm.Invoke(owner, addr, mustMarshal(t, &chain.SetInheritance{
		Names:      []string{"alice", "bob"},
		Identities: []string{alice.String(), bob.String()},
		Shares:     []uint16{7500, 2500},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(1_000+chain.ReleaseWindow), res.Receipt.Deadline)

	clk.now = 1_100
	res, err = vm.Invoke(owner, addr, mustMarshal(t, &chain.WithdrawOwn{Amount: 200_000}))
	require.NoError(t, err)
	assert.Equal(t, uint64(200_000), res.Receipt.Amount)
	deadline := res.Receipt.Deadline
	assert.Equal(t, int64(1_100+chain.ReleaseWindow), deadline)

	tt := []struct {
		caller  solana.PublicKey
		now     int64
		err     error
		amount  uint64
		balance uint64
	}{
		{caller: alice, now: deadline, err: chain.ErrNotReleased, balance: 800_000},
		// floor(800000/10000)*2500
		{caller: bob, now: deadline + 1, amount: 200_000, balance: 600_000},
		{caller: bob, now: deadline + 2, err: chain.ErrNoShare, balance: 600_000},
		{caller: alice, now: deadline + 3, amount: 600_000, balance: 0},
	}
	for i, tv := range tt {
		clk.now = tv.now
		res, err := vm.Invoke(tv.caller, addr, mustMarshal(t, &chain.WithdrawInheritance{}))
		if !errors.Is(err, tv.err) {
			t.Fatalf("#%d: invoke err expected %v, got %v", i, tv.err, err)
		}
		if err == nil && res.Receipt.Amount != tv.amount {
			t.Fatalf("#%d: amount expected %d, got %d", i, tv.amount, res.Receipt.Amount)
		}
		w, err := vm.Will(owner)
		if err != nil {
			t.Fatalf("#%d: will lookup failed %v", i, err)
		}
		if w.Balance != tv.balance {
			t.Fatalf("#%d: will balance expected %d, got %d", i, tv.balance, w.Balance)
		}
	}

	for k, want := range map[solana.PublicKey]uint64{owner: 200_000, alice: 600_000, bob: 200_000} {
		a, err := vm.Account(k)
		require.NoError(t, err)
		assert.Equal(t, want, a.Balance, k.String())
	}

	// create, fund, set, withdraw, bob claim, alice claim
	acts, err := vm.Activity(0)
	require.NoError(t, err)
	require.Len(t, acts, 6)
	assert.Equal(t, storage.Invoke, acts[0].Typ)
	assert.Equal(t, alice, acts[0].Sender)
	assert.Equal(t, int32(0), acts[0].Index)
	assert.Equal(t, storage.CreateWill, acts[5].Typ)
}

func TestInvokeRejectedLeavesNoTrace(t *testing.T) {
	t.Parallel()

	clk := &testClock{now: 50}
	vm := newTestVM(t, clk)
	owner := testKey(1)
	addr, _, err := vm.CreateWillAccount(owner)
	require.NoError(t, err)
	_, err = vm.Fund(addr, 100)
	require.NoError(t, err)

	tt := []struct {
		caller  solana.PublicKey
		target  solana.PublicKey
		payload []byte
		err     error
	}{
		{caller: owner, target: addr, payload: nil, err: chain.ErrEmptyInstruction},
		{caller: owner, target: addr, payload: mustMarshal(t, &chain.WithdrawOwn{Amount: 101}), err: chain.ErrInsufficientBalance},
		{caller: testKey(9), target: addr, payload: mustMarshal(t, &chain.WithdrawOwn{Amount: 1}), err: chain.ErrUnauthorized},
		{caller: owner, target: testKey(7), payload: mustMarshal(t, &chain.WithdrawOwn{}), err: ErrAccountMissing},
		{caller: addr, target: addr, payload: mustMarshal(t, &chain.WithdrawOwn{}), err: ErrSameAccount},
		{caller: owner, target: owner, payload: mustMarshal(t, &chain.WithdrawOwn{}), err: ErrSameAccount},
	}
	for i, tv := range tt {
		if _, err := vm.Invoke(tv.caller, tv.target, tv.payload); !errors.Is(err, tv.err) {
			t.Fatalf("#%d: expected %v, got %v", i, tv.err, err)
		}
	}

	a, err := vm.Account(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), a.Balance)
	assert.Empty(t, a.Data)
	_, err = vm.Account(owner)
	if !errors.Is(err, ErrAccountMissing) {
		t.Fatalf("expected %v, got %v", ErrAccountMissing, err)
	}
	acts, err := vm.Activity(0)
	require.NoError(t, err)
	assert.Len(t, acts, 2)
}

func TestInvokeWrongProgram(t *testing.T) {
	t.Parallel()

	vm := newTestVM(t, &testClock{now: 1})
	target := testKey(5)
	_, err := vm.Fund(target, 10)
	require.NoError(t, err)

	_, err = vm.Invoke(testKey(1), target, mustMarshal(t, &chain.WithdrawOwn{}))
	if !errors.Is(err, chain.ErrIncorrectProgram) {
		t.Fatalf("expected %v, got %v", chain.ErrIncorrectProgram, err)
	}
}

func TestClockNeverMovesBackwards(t *testing.T) {
	t.Parallel()

	clk := &testClock{now: 5_000}
	vm := newTestVM(t, clk)
	owner := testKey(1)
	addr, _, err := vm.CreateWillAccount(owner)
	require.NoError(t, err)

	res, err := vm.Invoke(owner, addr, mustMarshal(t, &chain.WithdrawOwn{}))
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), res.Timestamp)

	clk.now = 10
	res, err = vm.Invoke(owner, addr, mustMarshal(t, &chain.WithdrawOwn{}))
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), res.Timestamp)
	assert.Equal(t, int64(5_000+chain.ReleaseWindow), res.Receipt.Deadline)
}

func TestFundOverflow(t *testing.T) {
	t.Parallel()

	vm := newTestVM(t, &testClock{now: 1})
	k := testKey(4)
	_, err := vm.Fund(k, ^uint64(0))
	require.NoError(t, err)
	_, err = vm.Fund(k, 1)
	if !errors.Is(err, chain.ErrBalanceOverflow) {
		t.Fatalf("expected %v, got %v", chain.ErrBalanceOverflow, err)
	}
	a, err := vm.Account(k)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), a.Balance)
}

func TestStatePersists(t *testing.T) {
	t.Parallel()

	db := memdb.New()
	cfg := Config{}
	cfg.SetDefaults()
	clk := &testClock{now: 77}

	vm, err := New(db, cfg, WithClock(clk.Now))
	require.NoError(t, err)
	owner := testKey(1)
	addr, _, err := vm.CreateWillAccount(owner)
	require.NoError(t, err)
	_, err = vm.Fund(addr, 500)
	require.NoError(t, err)
	require.NoError(t, vm.Shutdown())

	_, err = vm.Fund(addr, 1)
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected %v, got %v", ErrClosed, err)
	}

	clk.now = 1
	vm2, err := New(db, cfg, WithClock(clk.Now))
	require.NoError(t, err)
	defer vm2.Shutdown()

	w, err := vm2.Will(owner)
	require.NoError(t, err)
	assert.Equal(t, addr, w.Address)
	assert.Equal(t, uint64(500), w.Balance)
	assert.Equal(t, uint8(0), w.Record.SchemaVersion)

	// the persisted clock wins over the rewound one
	res, err := vm2.Invoke(owner, addr, mustMarshal(t, &chain.WithdrawOwn{Amount: 1}))
	require.NoError(t, err)
	assert.Equal(t, int64(77), res.Timestamp)
}

func TestPruneActivity(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.SetDefaults()
	cfg.ActivityRetention = 3
	cfg.PruneLimit = 2
	vm, err := New(memdb.New(), cfg, WithClock((&testClock{now: 9}).Now))
	require.NoError(t, err)
	defer vm.Shutdown()

	for i := 0; i < 6; i++ {
		_, err := vm.Fund(testKey(byte(i)), uint64(i+1))
		require.NoError(t, err)
	}

	// 6 entries, 3 to drop, 2 per call
	assert.True(t, vm.pruneCall())
	assert.False(t, vm.pruneCall())
	assert.False(t, vm.pruneCall())

	acts, err := vm.Activity(0)
	require.NoError(t, err)
	require.Len(t, acts, 3)
	assert.Equal(t, uint64(6), acts[0].Amount)
	assert.Equal(t, uint64(4), acts[2].Amount)

	// accounts are never pruned
	a, err := vm.Account(testKey(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), a.Balance)
}
