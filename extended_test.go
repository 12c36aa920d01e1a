// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danclive/bsonrs/objectid"
)

func TestExtendedDocument_Shapes(t *testing.T) {
	t.Run("regex", func(t *testing.T) {
		d := VC.Regex("^ab", "ix").ExtendedDocument()
		require.True(t, d.Equal(NewDocument(
			EC.String("$regex", "^ab"),
			EC.String("$options", "ix"),
		)))
	})
	t.Run("code", func(t *testing.T) {
		d := VC.JavaScript("f()").ExtendedDocument()
		require.True(t, d.Equal(NewDocument(EC.String("$code", "f()"))))
	})
	t.Run("code with scope", func(t *testing.T) {
		scope := NewDocument(EC.Int32("x", 1))
		d := VC.CodeWithScope("f(x)", scope).ExtendedDocument()
		require.True(t, d.Equal(NewDocument(
			EC.String("$code", "f(x)"),
			EC.SubDocument("$scope", scope),
		)))
	})
	t.Run("timestamp", func(t *testing.T) {
		d := VC.Timestamp(1234, 5).ExtendedDocument()
		require.True(t, d.Equal(NewDocument(
			EC.Int64("t", 1234),
			EC.Int64("i", 5),
		)))
	})
	t.Run("binary", func(t *testing.T) {
		d := VC.BinaryWithSubtype(TypeBinaryUUID, []byte{0xDE, 0xAD, 0xBE, 0xEF}).ExtendedDocument()
		require.True(t, d.Equal(NewDocument(
			EC.String("$binary", "deadbeef"),
			EC.Int64("type", int64(TypeBinaryUUID)),
		)))
	})
	t.Run("objectid", func(t *testing.T) {
		oid := objectid.New()
		d := VC.ObjectID(oid).ExtendedDocument()
		require.True(t, d.Equal(NewDocument(EC.String("$oid", oid.Hex()))))
	})
	t.Run("datetime", func(t *testing.T) {
		ts := time.Unix(1234567890, 123e6).UTC()
		d := VC.DateTime(ts).ExtendedDocument()
		require.True(t, d.Equal(NewDocument(
			EC.SubDocument("$date", NewDocument(EC.Int64("$numberLong", 1234567890123))),
		)))
	})
	t.Run("symbol", func(t *testing.T) {
		d := VC.Symbol("sym").ExtendedDocument()
		require.True(t, d.Equal(NewDocument(EC.String("$symbol", "sym"))))
	})
	t.Run("native variants panic", func(t *testing.T) {
		require.Panics(t, func() { VC.String("s").ExtendedDocument() })
		require.Panics(t, func() { VC.Int32(1).ExtendedDocument() })
		require.Panics(t, func() { VC.Null().ExtendedDocument() })
	})
}

func TestFromExtendedDocument_RoundTrip(t *testing.T) {
	values := []Value{
		VC.Regex("^ab", "ix"),
		VC.JavaScript("f()"),
		VC.CodeWithScope("f(x)", NewDocument(EC.Int32("x", 1))),
		VC.Timestamp(1234, 5),
		VC.BinaryWithSubtype(TypeBinaryMD5, []byte{0x01, 0x02}),
		VC.ObjectID(objectid.New()),
		VC.DateTime(time.Unix(1234567890, 123e6).UTC()),
		VC.Symbol("sym"),
	}

	for _, v := range values {
		got := FromExtendedDocument(v.ExtendedDocument())
		require.True(t, v.Equal(got), "%s round-tripped to %s", v, got)
	}
}

func TestFromExtendedDocument_NonMatching(t *testing.T) {
	t.Run("plain document passes through", func(t *testing.T) {
		d := NewDocument(EC.String("a", "b"), EC.Int32("c", 1))
		v := FromExtendedDocument(d)
		require.Equal(t, TypeEmbeddedDocument, v.Type())
		require.True(t, d.Equal(v.Document()))
	})
	t.Run("wrong arity", func(t *testing.T) {
		// $regex without $options is just a document.
		d := NewDocument(EC.String("$regex", "^ab"))
		require.Equal(t, TypeEmbeddedDocument, FromExtendedDocument(d).Type())
	})
	t.Run("invalid hex stays a document", func(t *testing.T) {
		d := NewDocument(EC.String("$oid", "not hex at all, wrong size"))
		require.Equal(t, TypeEmbeddedDocument, FromExtendedDocument(d).Type())

		d = NewDocument(
			EC.String("$binary", "zz"),
			EC.Int64("type", 0),
		)
		require.Equal(t, TypeEmbeddedDocument, FromExtendedDocument(d).Type())
	})
	t.Run("timestamp halves accept int32", func(t *testing.T) {
		d := NewDocument(EC.Int32("t", 7), EC.Int32("i", 3))
		v := FromExtendedDocument(d)
		require.Equal(t, Timestamp{T: 7, I: 3}, v.Timestamp())
	})
}
