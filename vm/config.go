// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
)

// DefaultProgramID is the address the will program is deployed under.
var DefaultProgramID = solana.MustPublicKeyFromBase58("AP23jt8xRuScoSJs48W9GL34BVD6SZF2GF43aJZFWyj4")

type Config struct {
	ProgramID solana.PublicKey `json:"programId"`

	ListenAddress string `json:"listenAddress"`
	DataDir       string `json:"dataDir"`
	LogLevel      string `json:"logLevel"`

	// ActivityLimit caps how many activity entries a single query returns.
	ActivityLimit int `json:"activityLimit"`
	// ActivityRetention is how many of the newest activity entries survive
	// pruning. Zero keeps everything.
	ActivityRetention int `json:"activityRetention"`

	PruneLimit    int           `json:"pruneLimit"`
	PruneInterval time.Duration `json:"pruneInterval"`

	CompactInterval time.Duration `json:"compactInterval"`
}

func (c *Config) SetDefaults() {
	c.ProgramID = DefaultProgramID
	c.ListenAddress = "127.0.0.1:9650"
	c.DataDir = ""
	c.LogLevel = "info"

	c.ActivityLimit = 256
	c.ActivityRetention = 0

	c.PruneLimit = 128
	c.PruneInterval = time.Minute

	c.CompactInterval = 10 * time.Minute
}

func (c *Config) Verify() error {
	if c.ProgramID.IsZero() {
		return fmt.Errorf("%w: program id is empty", ErrInvalidConfig)
	}
	if c.ActivityLimit <= 0 {
		return fmt.Errorf("%w: activity limit %d must be positive", ErrInvalidConfig, c.ActivityLimit)
	}
	if c.ActivityRetention < 0 {
		return fmt.Errorf("%w: activity retention %d is negative", ErrInvalidConfig, c.ActivityRetention)
	}
	if c.PruneLimit <= 0 || c.PruneInterval <= 0 {
		return fmt.Errorf("%w: prune limit %d and interval %v must be positive", ErrInvalidConfig, c.PruneLimit, c.PruneInterval)
	}
	if c.CompactInterval <= 0 {
		return fmt.Errorf("%w: compact interval %v must be positive", ErrInvalidConfig, c.CompactInterval)
	}
	return nil
}
