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

func TestValue_Zero(t *testing.T) {
	var v Value
	require.Equal(t, TypeNull, v.Type())
	require.True(t, v.IsNull())
	require.True(t, v.Equal(VC.Null()))
}

func TestValue_Accessors(t *testing.T) {
	t.Run("matching type", func(t *testing.T) {
		require.Equal(t, 3.14, VC.Double(3.14).Double())
		require.Equal(t, "hi", VC.String("hi").StringValue())
		require.Equal(t, int32(1), VC.Int32(1).Int32())
		require.Equal(t, int64(1), VC.Int64(1).Int64())
		require.True(t, VC.Boolean(true).Boolean())
		require.Equal(t, Regex{Pattern: "^", Options: "x"}, VC.Regex("^", "x").Regex())
		require.Equal(t, "f()", VC.JavaScript("f()").JavaScript())
		require.Equal(t, "sym", VC.Symbol("sym").Symbol())
		require.Equal(t, Timestamp{T: 1, I: 2}, VC.Timestamp(1, 2).Timestamp())
		require.Equal(t, Binary{Subtype: TypeBinaryGeneric, Data: []byte{0xAA}}, VC.Binary([]byte{0xAA}).Binary())

		oid := objectid.New()
		require.Equal(t, oid, VC.ObjectID(oid).ObjectID())

		scope := NewDocument(EC.Int32("x", 1))
		code, got := VC.CodeWithScope("f()", scope).JavaScriptWithScope()
		require.Equal(t, "f()", code)
		require.True(t, scope.Equal(got))
	})
	t.Run("mismatched type panics", func(t *testing.T) {
		require.Panics(t, func() { VC.Int32(1).StringValue() })
		require.Panics(t, func() { VC.String("a").Double() })
		require.Panics(t, func() { VC.Null().Boolean() })
	})
	t.Run("OK variants", func(t *testing.T) {
		_, ok := VC.Int32(1).StringValueOK()
		require.False(t, ok)

		i, ok := VC.Int32(1).Int32OK()
		require.True(t, ok)
		require.Equal(t, int32(1), i)
	})
}

func TestValue_DateTime(t *testing.T) {
	ts := time.Date(2019, 2, 24, 5, 30, 15, 123e6, time.UTC)
	v := VC.DateTime(ts)

	require.Equal(t, ts, v.Time())
	require.Equal(t, ts.Unix()*1000+123, v.DateTime())
}

func TestValue_Equal(t *testing.T) {
	t.Run("scalars", func(t *testing.T) {
		require.True(t, VC.Int32(1).Equal(VC.Int32(1)))
		require.False(t, VC.Int32(1).Equal(VC.Int32(2)))
		// Same numeric value, different element type.
		require.False(t, VC.Int32(1).Equal(VC.Int64(1)))
	})
	t.Run("composites", func(t *testing.T) {
		d1 := NewDocument(EC.Array("a", NewArray(VC.Int32(1), VC.Null())))
		d2 := NewDocument(EC.Array("a", NewArray(VC.Int32(1), VC.Null())))
		require.True(t, VC.Document(d1).Equal(VC.Document(d2)))

		require.True(t, VC.Binary([]byte{1, 2}).Equal(VC.Binary([]byte{1, 2})))
		require.False(t, VC.Binary([]byte{1, 2}).Equal(VC.BinaryWithSubtype(TypeBinaryUUID, []byte{1, 2})))
	})
	t.Run("datetime compares instants", func(t *testing.T) {
		utc := time.Date(2019, 2, 24, 5, 0, 0, 0, time.UTC)
		require.True(t, VC.DateTime(utc).Equal(VC.DateTime(utc.In(time.FixedZone("x", 3600)))))
	})
}

func TestValue_Interface(t *testing.T) {
	require.Equal(t, nil, VC.Null().Interface())
	require.Equal(t, int32(5), VC.Int32(5).Interface())
	require.Equal(t, "s", VC.String("s").Interface())
	require.Equal(t, JavaScriptCode("f()"), VC.JavaScript("f()").Interface())
	require.Equal(t, Symbol("sym"), VC.Symbol("sym").Interface())
}

func TestVC_Interface(t *testing.T) {
	require.Equal(t, TypeInt64, VC.Interface(5).Type())
	require.Equal(t, TypeInt32, VC.Interface(int16(5)).Type())
	require.Equal(t, TypeDouble, VC.Interface(float32(5)).Type())
	require.Equal(t, TypeString, VC.Interface("s").Type())
	require.Equal(t, TypeNull, VC.Interface(nil).Type())
	require.Equal(t, TypeBinary, VC.Interface([]byte{1}).Type())
	// Unsupported values degrade to null instead of failing.
	require.Equal(t, TypeNull, VC.Interface(uint64(5)).Type())
	// Reflection handles compound values.
	require.Equal(t, TypeArray, VC.Interface([]string{"a"}).Type())
}

func TestVC_NilComposites(t *testing.T) {
	require.True(t, VC.Document(nil).IsNull())
	require.True(t, VC.Array(nil).IsNull())
}
