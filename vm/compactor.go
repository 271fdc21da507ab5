// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"time"

	log "github.com/inconshreveable/log15"
)

func (vm *VM) compact() {
	log.Debug("starting compaction loops")
	defer close(vm.doneCompact)

	t := time.NewTimer(vm.config.CompactInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
		case <-vm.stop:
			return
		}

		start := time.Now()
		if err := vm.db.Compact(nil, nil); err != nil {
			log.Error("unable to compact database", "error", err)
		} else {
			log.Debug("compacted database", "t", time.Since(start))
		}

		t.Reset(vm.config.CompactInterval)
	}
}
