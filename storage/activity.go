// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/willvm/codec"
)

// Activity types
const (
	CreateWill = "createWill"
	Fund       = "fund"
	Invoke     = "invoke"
)

// Activity records one accepted state change.
type Activity struct {
	TxID   ids.ID           `serialize:"true" json:"txId"`
	Tmstmp int64            `serialize:"true" json:"timestamp"`
	Typ    string           `serialize:"true" json:"type"`
	Sender solana.PublicKey `serialize:"true" json:"sender"`
	To     solana.PublicKey `serialize:"true" json:"to"`
	Opcode uint8            `serialize:"true" json:"opcode"`
	Amount uint64           `serialize:"true" json:"amount,omitempty"`
	Index  int32            `serialize:"true" json:"index"`
}

func getCounter(meta database.KeyValueReader, key []byte) (uint64, error) {
	v, err := meta.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, ErrCorruptMeta
	}
	return binary.BigEndian.Uint64(v), nil
}

// AppendActivity stores [a] under the next sequence number.
func AppendActivity(s Storage, a *Activity) error {
	n, err := getCounter(s.Meta(), activityCountKey)
	if err != nil {
		return err
	}
	b, err := codec.Marshal(a)
	if err != nil {
		return err
	}
	if err := s.Activity().Put(uint64Bytes(n), b); err != nil {
		return err
	}
	return s.Meta().Put(activityCountKey, uint64Bytes(n+1))
}

// GetActivity returns up to [limit] of the most recent activities, newest
// first.
func GetActivity(s Storage, limit int) ([]*Activity, error) {
	n, err := getCounter(s.Meta(), activityCountKey)
	if err != nil {
		return nil, err
	}
	pruned, err := getCounter(s.Meta(), activityPrunedKey)
	if err != nil {
		return nil, err
	}
	out := []*Activity{}
	for i := n; i > pruned && len(out) < limit; i-- {
		v, err := s.Activity().Get(uint64Bytes(i - 1))
		if err != nil {
			return nil, err
		}
		a := new(Activity)
		if _, err := codec.Unmarshal(v, a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// PruneActivity deletes at most [limit] of the oldest entries that fall
// outside the newest [keep]. It returns how many were deleted.
func PruneActivity(s Storage, keep uint64, limit int) (int, error) {
	n, err := getCounter(s.Meta(), activityCountKey)
	if err != nil {
		return 0, err
	}
	pruned, err := getCounter(s.Meta(), activityPrunedKey)
	if err != nil {
		return 0, err
	}
	if n <= keep {
		return 0, nil
	}
	end := n - keep
	removals := 0
	for i := pruned; i < end && removals < limit; i++ {
		if err := s.Activity().Delete(uint64Bytes(i)); err != nil {
			return removals, err
		}
		removals++
	}
	if removals == 0 {
		return 0, nil
	}
	return removals, s.Meta().Put(activityPrunedKey, uint64Bytes(pruned+uint64(removals)))
}
