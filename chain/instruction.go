// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// Opcodes select the command in the first payload byte.
const (
	OpSetInheritance      uint8 = 0
	OpWithdrawOwn         uint8 = 1
	OpWithdrawInheritance uint8 = 2
)

// Instruction is a decoded will program command.
type Instruction interface {
	Opcode() uint8
	Marshal() ([]byte, error)
}

var (
	_ Instruction = &SetInheritance{}
	_ Instruction = &WithdrawOwn{}
	_ Instruction = &WithdrawInheritance{}
	_ Instruction = &Noop{}
)

// SetInheritance replaces the beneficiary list. The three sequences are
// parallel.
type SetInheritance struct {
	Names      []string `json:"names"`
	Identities []string `json:"identities"`
	Shares     []uint16 `json:"shares"`
}

func (*SetInheritance) Opcode() uint8 { return OpSetInheritance }

func (s *SetInheritance) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint8(OpSetInheritance); err != nil {
		return nil, err
	}
	if err := writeStrings(enc, s.Names); err != nil {
		return nil, err
	}
	if err := writeStrings(enc, s.Identities); err != nil {
		return nil, err
	}
	if err := writeShares(enc, s.Shares); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Beneficiaries zips the parallel sequences.
func (s *SetInheritance) Beneficiaries() []*Beneficiary {
	if len(s.Names) == 0 {
		return nil
	}
	out := make([]*Beneficiary, len(s.Names))
	for i := range s.Names {
		out[i] = &Beneficiary{Name: s.Names[i], Identity: s.Identities[i], Share: s.Shares[i]}
	}
	return out
}

// WithdrawOwn moves [Amount] from the will account back to its owner.
type WithdrawOwn struct {
	Amount uint64 `json:"amount"`
}

func (*WithdrawOwn) Opcode() uint8 { return OpWithdrawOwn }

func (w *WithdrawOwn) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint8(OpWithdrawOwn); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(w.Amount, le); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WithdrawInheritance claims the caller's share. The claimant is the caller.
type WithdrawInheritance struct{}

func (*WithdrawInheritance) Opcode() uint8 { return OpWithdrawInheritance }

func (*WithdrawInheritance) Marshal() ([]byte, error) {
	return []byte{OpWithdrawInheritance}, nil
}

// Noop is any opcode this program does not know. It always succeeds.
type Noop struct {
	Op uint8 `json:"opcode"`
}

func (n *Noop) Opcode() uint8 { return n.Op }

func (n *Noop) Marshal() ([]byte, error) {
	return []byte{n.Op}, nil
}

// ParseInstruction decodes an opcode-tagged payload.
func ParseInstruction(payload []byte) (Instruction, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyInstruction
	}
	dec := bin.NewBorshDecoder(payload[1:])

	var ins Instruction
	switch op := payload[0]; op {
	case OpSetInheritance:
		names, err := readStrings(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: names: %v", ErrMalformedInstruction, err)
		}
		identities, err := readStrings(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: identities: %v", ErrMalformedInstruction, err)
		}
		shares, err := readShares(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: shares: %v", ErrMalformedInstruction, err)
		}
		if len(names) != len(identities) || len(names) != len(shares) {
			return nil, fmt.Errorf(
				"%w: %d names, %d identities, %d shares",
				ErrInconsistentInstruction, len(names), len(identities), len(shares),
			)
		}
		ins = &SetInheritance{Names: names, Identities: identities, Shares: shares}
	case OpWithdrawOwn:
		amount, err := dec.ReadUint64(le)
		if err != nil {
			return nil, fmt.Errorf("%w: amount: %v", ErrMalformedInstruction, err)
		}
		ins = &WithdrawOwn{Amount: amount}
	case OpWithdrawInheritance:
		ins = &WithdrawInheritance{}
	default:
		// Reserved for future commands; the rest of the payload is opaque.
		return &Noop{Op: op}, nil
	}

	if dec.Remaining() > 0 {
		return nil, fmt.Errorf("%w: %d after opcode %d", ErrTrailingBytes, dec.Remaining(), payload[0])
	}
	return ins, nil
}
