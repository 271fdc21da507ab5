// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/willvm/codec"
)

var (
	accountBucket  = []byte("account")
	activityBucket = []byte("activity")
	metaBucket     = []byte("meta")

	lastTimeKey       = []byte("last_time")
	activityCountKey  = []byte("activity_count")
	activityPrunedKey = []byte("activity_pruned")
)

var ErrCorruptMeta = errors.New("corrupt metadata value")

// Storage buffers every write in memory until Commit. Abort drops whatever
// was written since the last Commit, so one invocation is applied entirely
// or not at all.
type Storage interface {
	Accounts() database.Database
	Activity() database.Database
	Meta() database.Database
	Commit() error
	Abort()
	Close() error
}

type storage struct {
	baseDB     *versiondb.Database
	accountDB  *prefixdb.Database
	activityDB *prefixdb.Database
	metaDB     *prefixdb.Database
}

func New(db database.Database) Storage {
	baseDB := versiondb.New(db)
	return &storage{
		baseDB:     baseDB,
		accountDB:  prefixdb.New(accountBucket, baseDB),
		activityDB: prefixdb.New(activityBucket, baseDB),
		metaDB:     prefixdb.New(metaBucket, baseDB),
	}
}

func (s *storage) Accounts() database.Database {
	return s.accountDB
}

func (s *storage) Activity() database.Database {
	return s.activityDB
}

func (s *storage) Meta() database.Database {
	return s.metaDB
}

func (s *storage) Commit() error {
	return s.baseDB.Commit()
}

func (s *storage) Abort() {
	s.baseDB.Abort()
}

func (s *storage) Close() error {
	return s.baseDB.Close()
}

// Account is the host record behind every address: the program that owns
// it, its native balance and its raw data buffer.
type Account struct {
	Owner   solana.PublicKey `serialize:"true" json:"owner"`
	Balance uint64           `serialize:"true" json:"balance"`
	Data    []byte           `serialize:"true" json:"data"`
}

func GetAccount(db database.KeyValueReader, addr solana.PublicKey) (*Account, bool, error) {
	v, err := db.Get(addr[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	a := new(Account)
	if _, err := codec.Unmarshal(v, a); err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func PutAccount(db database.KeyValueWriter, addr solana.PublicKey, a *Account) error {
	b, err := codec.Marshal(a)
	if err != nil {
		return err
	}
	return db.Put(addr[:], b)
}

func GetLastTime(db database.KeyValueReader) (int64, error) {
	v, err := db.Get(lastTimeKey)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, ErrCorruptMeta
	}
	return int64(binary.BigEndian.Uint64(v)), nil
}

func PutLastTime(db database.KeyValueWriter, t int64) error {
	return db.Put(lastTimeKey, uint64Bytes(uint64(t)))
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
