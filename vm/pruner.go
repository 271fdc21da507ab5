// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/willvm/storage"
)

// pruneCall drops activity outside the retention window and reports whether
// more work is left.
func (vm *VM) pruneCall() bool {
	// Lock to prevent concurrent modification of state
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed || vm.config.ActivityRetention == 0 {
		return false
	}
	removals, err := storage.PruneActivity(vm.s, uint64(vm.config.ActivityRetention), vm.config.PruneLimit)
	if err != nil {
		vm.s.Abort()
		log.Warn("unable to prune next range", "error", err)
		return false
	}
	if err := vm.s.Commit(); err != nil {
		vm.s.Abort()
		log.Warn("unable to commit pruning work", "error", err)
		return false
	}
	if removals > 0 {
		log.Debug("pruned activity", "removals", removals)
	}
	return removals == vm.config.PruneLimit
}

func (vm *VM) prune() {
	log.Debug("starting prune loops")
	defer close(vm.donePrune)

	t := time.NewTimer(vm.config.PruneInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
		case <-vm.stop:
			return
		}
		if vm.pruneCall() {
			// keep going while there is a backlog
			t.Reset(time.Second)
		} else {
			t.Reset(vm.config.PruneInterval)
		}
	}
}
