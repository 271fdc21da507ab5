// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

const (
	// SchemaVersion is written by every Set Inheritance.
	SchemaVersion uint8 = 1

	// versionUninitialized is what a zero-filled account buffer decodes to.
	versionUninitialized uint8 = 0

	// versionEscape is reserved to signal that more version bytes follow.
	// No multi-byte scheme exists yet, so it is rejected like any other
	// unknown version.
	versionEscape uint8 = 255

	// ShareDenominator is the nominal basis-point scale of a share. Payouts
	// are normalized by the live sum of shares, not by this constant.
	ShareDenominator = 10_000
)

type Beneficiary struct {
	Name     string `json:"name"`
	Identity string `json:"identity"`
	Share    uint16 `json:"share"`
}

// WillRecord is the state stored in a will account's data buffer.
type WillRecord struct {
	SchemaVersion   uint8          `json:"schemaVersion"`
	ReleaseDeadline int64          `json:"releaseDeadline"`
	Beneficiaries   []*Beneficiary `json:"beneficiaries"`
}

// Marshal encodes the record as version, deadline and then the three
// parallel sequences of names, identities and shares.
func (r *WillRecord) Marshal() ([]byte, error) {
	names := make([]string, len(r.Beneficiaries))
	identities := make([]string, len(r.Beneficiaries))
	shares := make([]uint16, len(r.Beneficiaries))
	for i, b := range r.Beneficiaries {
		names[i], identities[i], shares[i] = b.Name, b.Identity, b.Share
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint8(r.SchemaVersion); err != nil {
		return nil, err
	}
	if err := enc.WriteInt64(r.ReleaseDeadline, le); err != nil {
		return nil, err
	}
	if err := writeStrings(enc, names); err != nil {
		return nil, err
	}
	if err := writeStrings(enc, identities); err != nil {
		return nil, err
	}
	if err := writeShares(enc, shares); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalWillRecord decodes a record from an account buffer. An empty
// buffer is the uninitialized record. Bytes past the end of the record are
// ignored since account buffers may be allocated larger than their content.
func UnmarshalWillRecord(b []byte) (*WillRecord, error) {
	if len(b) == 0 {
		return &WillRecord{}, nil
	}
	dec := bin.NewBorshDecoder(b)
	version, err := dec.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	switch version {
	case versionUninitialized, SchemaVersion:
	case versionEscape:
		return nil, fmt.Errorf("%w: multi-byte version marker %d", ErrUnsupportedVersion, version)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	deadline, err := dec.ReadInt64(le)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline: %v", ErrMalformedRecord, err)
	}
	names, err := readStrings(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: names: %v", ErrMalformedRecord, err)
	}
	identities, err := readStrings(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: identities: %v", ErrMalformedRecord, err)
	}
	shares, err := readShares(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: shares: %v", ErrMalformedRecord, err)
	}
	if len(names) != len(identities) || len(names) != len(shares) {
		return nil, fmt.Errorf(
			"%w: %d names, %d identities, %d shares",
			ErrInconsistentRecord, len(names), len(identities), len(shares),
		)
	}

	r := &WillRecord{
		SchemaVersion:   version,
		ReleaseDeadline: deadline,
	}
	if len(names) > 0 {
		r.Beneficiaries = make([]*Beneficiary, len(names))
		for i := range names {
			r.Beneficiaries[i] = &Beneficiary{Name: names[i], Identity: identities[i], Share: shares[i]}
		}
	}
	return r, nil
}
