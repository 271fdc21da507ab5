// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	bin "github.com/gagliardetto/binary"
)

// Wire values follow Borsh: little-endian integers, u32 length prefixes for
// strings and sequences.
var le = binary.LittleEndian

const (
	lenPrefixSize = 4
	shareSize     = 2
)

// readLen reads a sequence length and rejects it if [elemSize]*n bytes are
// not left in the buffer, so hostile lengths never drive an allocation.
func readLen(dec *bin.Decoder, elemSize int) (int, error) {
	n, err := dec.ReadUint32(le)
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(elemSize) > uint64(dec.Remaining()) {
		return 0, fmt.Errorf("length %d exceeds %d remaining bytes", n, dec.Remaining())
	}
	return int(n), nil
}

func readString(dec *bin.Decoder) (string, error) {
	n, err := readLen(dec, 1)
	if err != nil {
		return "", err
	}
	b, err := dec.ReadNBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("string is not valid utf-8")
	}
	return string(b), nil
}

func readStrings(dec *bin.Decoder) ([]string, error) {
	n, err := readLen(dec, lenPrefixSize)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = readString(dec); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readShares(dec *bin.Decoder) ([]uint16, error) {
	n, err := readLen(dec, shareSize)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]uint16, n)
	for i := range out {
		if out[i], err = dec.ReadUint16(le); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeString(enc *bin.Encoder, s string) error {
	if err := enc.WriteUint32(uint32(len(s)), le); err != nil {
		return err
	}
	return enc.WriteBytes([]byte(s), false)
}

func writeStrings(enc *bin.Encoder, ss []string) error {
	if err := enc.WriteUint32(uint32(len(ss)), le); err != nil {
		return err
	}
	for _, s := range ss {
		if err := writeString(enc, s); err != nil {
			return err
		}
	}
	return nil
}

func writeShares(enc *bin.Encoder, shares []uint16) error {
	if err := enc.WriteUint32(uint32(len(shares)), le); err != nil {
		return err
	}
	for _, s := range shares {
		if err := enc.WriteUint16(s, le); err != nil {
			return err
		}
	}
	return nil
}
