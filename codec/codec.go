// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec serializes host-side records such as accounts and activity.
// The will program's own wire formats live in package chain.
package codec

import (
	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
)

const (
	// codecVersion is the current default codec version
	codecVersion = 0

	// maxSize bounds a single encoded record.
	maxSize = 1 << 20
)

// Codecs do serialization and deserialization
var codecManager codec.Manager

func init() {
	c := linearcodec.NewDefault()
	codecManager = codec.NewManager(maxSize)
	if err := codecManager.RegisterCodec(codecVersion, c); err != nil {
		panic(err)
	}
}

func Marshal(source interface{}) ([]byte, error) {
	return codecManager.Marshal(codecVersion, source)
}

func Unmarshal(source []byte, destination interface{}) (uint16, error) {
	return codecManager.Unmarshal(source, destination)
}
