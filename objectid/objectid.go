// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0
//
// Based on gopkg.in/mgo.v2/bson by Gustavo Niemeyer
// See THIRD-PARTY-NOTICES for original license terms.

// Package objectid implements the 12-byte ObjectID identifier: a 4-byte
// big-endian Unix timestamp, a 5-byte per-process random value, and a 3-byte
// incrementing counter seeded randomly at startup.
package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidHex indicates that a hex string cannot be converted to an ObjectID.
var ErrInvalidHex = errors.New("the provided hex string is not a valid ObjectID")

// ErrInvalidLength indicates that a byte slice of the wrong length was given
// to FromBytes.
var ErrInvalidLength = errors.New("an ObjectID must be exactly 12 bytes long")

// ObjectID is a 12-byte unique identifier.
type ObjectID [12]byte

// Nil is the zero value for ObjectID.
var Nil ObjectID

var counter = readRandomUint32()
var processUnique = processUniqueBytes()

// New generates a new ObjectID from the current time.
func New() ObjectID {
	return FromTimestamp(time.Now())
}

// FromTimestamp generates a new ObjectID whose leading 4 bytes hold the given
// time as Unix seconds.
func FromTimestamp(timestamp time.Time) ObjectID {
	var b [12]byte

	binary.BigEndian.PutUint32(b[0:4], uint32(timestamp.Unix()))
	copy(b[4:9], processUnique[:])
	putUint24(b[9:12], atomic.AddUint32(&counter, 1))

	return b
}

// FromHex creates an ObjectID from its 24-character hex representation.
func FromHex(s string) (ObjectID, error) {
	if len(s) != 24 {
		return Nil, ErrInvalidHex
	}

	var oid [12]byte
	_, err := hex.Decode(oid[:], []byte(s))
	if err != nil {
		return Nil, ErrInvalidHex
	}

	return oid, nil
}

// FromBytes creates an ObjectID from a 12-byte slice.
func FromBytes(b []byte) (ObjectID, error) {
	if len(b) != 12 {
		return Nil, ErrInvalidLength
	}

	var oid [12]byte
	copy(oid[:], b)
	return oid, nil
}

// Timestamp extracts the time part of the ObjectID.
func (id ObjectID) Timestamp() time.Time {
	unixSecs := binary.BigEndian.Uint32(id[0:4])
	return time.Unix(int64(unixSecs), 0).UTC()
}

// Hex returns the hex encoding of the ObjectID as a string.
func (id ObjectID) Hex() string {
	var buf [24]byte
	hex.Encode(buf[:], id[:])
	return string(buf[:])
}

func (id ObjectID) String() string {
	return `ObjectID("` + id.Hex() + `")`
}

// IsZero returns true if id is the empty ObjectID.
func (id ObjectID) IsZero() bool {
	return id == Nil
}

func processUniqueBytes() [5]byte {
	var b [5]byte
	_, err := io.ReadFull(rand.Reader, b[:])
	if err != nil {
		panic(fmt.Errorf("cannot initialize objectid package with crypto.rand.Reader: %w", err))
	}

	return b
}

func readRandomUint32() uint32 {
	var b [4]byte
	_, err := io.ReadFull(rand.Reader, b[:])
	if err != nil {
		panic(fmt.Errorf("cannot initialize objectid package with crypto.rand.Reader: %w", err))
	}

	return (uint32(b[0]) << 0) | (uint32(b[1]) << 8) | (uint32(b[2]) << 16) | (uint32(b[3]) << 24)
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}
