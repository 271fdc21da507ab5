// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// integration implements the integration tests.
package integration_test

import (
	"flag"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	log "github.com/inconshreveable/log15"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/ava-labs/willvm/chain"
	"github.com/ava-labs/willvm/client"
	"github.com/ava-labs/willvm/storage"
	"github.com/ava-labs/willvm/vm"
)

func TestIntegration(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "willvm integration test suites")
}

var requestTimeout time.Duration

func init() {
	flag.DurationVar(
		&requestTimeout,
		"request-timeout",
		30*time.Second,
		"timeout for a single RPC request",
	)
}

var (
	owner   solana.PublicKey
	alice   solana.PublicKey
	bob     solana.PublicKey
	mallory solana.PublicKey

	// unix seconds served to the embedded VM
	now int64

	instance struct {
		vm         *vm.VM
		httpServer *httptest.Server
		cli        client.Client
	}
)

func setNow(t int64) { atomic.StoreInt64(&now, t) }

func newKey() solana.PublicKey {
	priv, err := solana.NewRandomPrivateKey()
	gomega.Ω(err).Should(gomega.BeNil())
	return priv.PublicKey()
}

var _ = ginkgo.BeforeSuite(func() {
	owner, alice, bob, mallory = newKey(), newKey(), newKey(), newKey()
	log.Debug("generated keys", "owner", owner, "alice", alice, "bob", bob, "mallory", mallory)

	setNow(1_650_000_000)
	var cfg vm.Config
	cfg.SetDefaults()
	v, err := vm.New(memdb.New(), cfg, vm.WithClock(func() int64 { return atomic.LoadInt64(&now) }))
	gomega.Ω(err).Should(gomega.BeNil())

	hd, err := v.CreateHandlers()
	gomega.Ω(err).Should(gomega.BeNil())

	instance.vm = v
	instance.httpServer = httptest.NewServer(hd[vm.PublicEndpoint])
	instance.cli = client.New(instance.httpServer.URL, requestTimeout)
	color.Blue("created VM at %s", instance.httpServer.URL)
})

var _ = ginkgo.AfterSuite(func() {
	instance.httpServer.Close()
	err := instance.vm.Shutdown()
	gomega.Ω(err).Should(gomega.BeNil())
})

var _ = ginkgo.Describe("[Ping]", func() {
	ginkgo.It("can ping", func() {
		ok, err := instance.cli.Ping()
		gomega.Ω(ok).Should(gomega.BeTrue())
		gomega.Ω(err).Should(gomega.BeNil())
	})
})

var _ = ginkgo.Describe("[Inheritance]", ginkgo.Ordered, func() {
	var willAddr solana.PublicKey

	ginkgo.It("derives the same address as the program", func() {
		addr, err := instance.cli.DeriveAddress(owner)
		gomega.Ω(err).Should(gomega.BeNil())

		expected, err := chain.WillAddress(owner, vm.DefaultProgramID)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(addr).Should(gomega.Equal(expected))
		willAddr = addr
	})

	ginkgo.It("creates and funds the will", func() {
		addr, _, err := instance.cli.CreateWill(owner)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(addr).Should(gomega.Equal(willAddr))

		_, _, err = instance.cli.CreateWill(owner)
		gomega.Ω(err).ShouldNot(gomega.BeNil())

		bal, err := instance.cli.Fund(willAddr, 1_000_000)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(bal).Should(gomega.Equal(uint64(1_000_000)))

		w, err := instance.cli.Will(owner)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(w.Record.SchemaVersion).Should(gomega.Equal(uint8(0)))
		gomega.Ω(w.Record.Beneficiaries).Should(gomega.BeEmpty())
	})

	ginkgo.It("lets only the owner set beneficiaries", func() {
		bs := []*chain.Beneficiary{
			{Name: "alice", Identity: alice.String(), Share: 6000},
			{Name: "bob", Identity: bob.String(), Share: 4000},
		}

		ginkgo.By("rejecting a stranger", func() {
			_, err := instance.cli.Invoke(mallory, willAddr, mustMarshal(&chain.SetInheritance{
				Names:      []string{"mallory"},
				Identities: []string{mallory.String()},
				Shares:     []uint16{10_000},
			}))
			gomega.Ω(err).ShouldNot(gomega.BeNil())
		})

		ginkgo.By("accepting the owner", func() {
			res, err := client.SetInheritance(instance.cli, owner, bs, client.WithVerbose())
			gomega.Ω(err).Should(gomega.BeNil())
			gomega.Ω(res.Receipt.Deadline).Should(gomega.Equal(atomic.LoadInt64(&now) + chain.ReleaseWindow))
		})

		w, err := instance.cli.Will(owner)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(w.Record.SchemaVersion).Should(gomega.Equal(chain.SchemaVersion))
		gomega.Ω(w.Record.Beneficiaries).Should(gomega.Equal(bs))
	})

	ginkgo.It("keeps the will locked while the owner is alive", func() {
		setNow(atomic.LoadInt64(&now) + chain.ReleaseWindow - 1)
		res, err := client.WithdrawOwn(instance.cli, owner, 100_000)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(res.Receipt.Amount).Should(gomega.Equal(uint64(100_000)))

		setNow(atomic.LoadInt64(&now) + chain.ReleaseWindow)
		_, err = client.WithdrawInheritance(instance.cli, alice, owner)
		gomega.Ω(err).ShouldNot(gomega.BeNil())

		w, err := instance.cli.Will(owner)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(w.Balance).Should(gomega.Equal(uint64(900_000)))
	})

	ginkgo.It("pays each beneficiary once after release", func() {
		setNow(atomic.LoadInt64(&now) + 1)

		// floor(900000/10000)*4000
		res, err := client.WithdrawInheritance(instance.cli, bob, owner, client.WithInfo())
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(res.Receipt.Amount).Should(gomega.Equal(uint64(360_000)))
		gomega.Ω(res.Receipt.Index).Should(gomega.Equal(1))

		_, err = client.WithdrawInheritance(instance.cli, bob, owner)
		gomega.Ω(err).ShouldNot(gomega.BeNil())

		res, err = client.WithdrawInheritance(instance.cli, alice, owner)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(res.Receipt.Amount).Should(gomega.Equal(uint64(540_000)))

		for k, bal := range map[solana.PublicKey]uint64{
			owner: 100_000,
			alice: 540_000,
			bob:   360_000,
		} {
			a, err := instance.cli.Account(k)
			gomega.Ω(err).Should(gomega.BeNil())
			gomega.Ω(a.Balance).Should(gomega.Equal(bal))
		}

		w, err := instance.cli.Will(owner)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(w.Balance).Should(gomega.BeZero())
		client.PPWill(w)
	})

	ginkgo.It("treats unknown opcodes as no-ops", func() {
		res, err := instance.cli.Invoke(mallory, willAddr, []byte{42, 1, 2, 3})
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(res.Receipt.Opcode).Should(gomega.Equal(uint8(42)))
	})

	ginkgo.It("accounts for all activity", func() {
		activity, err := instance.cli.Activity(0)
		gomega.Ω(err).Should(gomega.BeNil())
		client.PPActivity(activity)

		// create, fund, set, withdraw, bob, alice, noop
		gomega.Ω(len(activity)).Should(gomega.Equal(7))
		a0 := activity[0]
		gomega.Ω(a0.Typ).Should(gomega.Equal(storage.Invoke))
		gomega.Ω(a0.Opcode).Should(gomega.Equal(uint8(42)))
		gomega.Ω(a0.Sender).Should(gomega.Equal(mallory))
		a6 := activity[6]
		gomega.Ω(a6.Typ).Should(gomega.Equal(storage.CreateWill))
		gomega.Ω(a6.Sender).Should(gomega.Equal(owner))
		gomega.Ω(a6.To).Should(gomega.Equal(willAddr))
	})
})

func mustMarshal(ins chain.Instruction) []byte {
	b, err := ins.Marshal()
	gomega.Ω(err).Should(gomega.BeNil())
	return b
}
