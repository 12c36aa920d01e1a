// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package objectid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	// Ensure that New() doesn't panic.
	New()
}

func TestString(t *testing.T) {
	id := New()
	require.Contains(t, id.String(), id.Hex())
}

func TestFromHex_RoundTrip(t *testing.T) {
	before := New()
	after, err := FromHex(before.Hex())
	require.NoError(t, err)

	require.Equal(t, before, after)
}

func TestFromHex_InvalidHex(t *testing.T) {
	_, err := FromHex("this is not a valid hex string!")
	require.Error(t, err)
}

func TestFromHex_WrongLength(t *testing.T) {
	_, err := FromHex("deadbeef")
	require.Equal(t, ErrInvalidHex, err)
}

func TestFromBytes(t *testing.T) {
	before := New()
	after, err := FromBytes(before[:])
	require.NoError(t, err)
	require.Equal(t, before, after)

	_, err = FromBytes([]byte{0x01, 0x02})
	require.Equal(t, ErrInvalidLength, err)
}

func TestFromTimestamp(t *testing.T) {
	ts := time.Date(2018, 7, 1, 12, 30, 15, 0, time.UTC)
	id := FromTimestamp(ts)
	require.Equal(t, ts, id.Timestamp())
}

func TestCounterIncrements(t *testing.T) {
	a, b := New(), New()
	require.NotEqual(t, a, b)
}
