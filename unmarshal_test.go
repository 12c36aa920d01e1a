// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danclive/bsonrs/objectid"
)

func TestUnmarshalValue_Targets(t *testing.T) {
	t.Run("nil target", func(t *testing.T) {
		err := UnmarshalValue(VC.Int32(1), nil)
		require.IsType(t, InvalidUnmarshalError{}, err)
	})
	t.Run("non-pointer target", func(t *testing.T) {
		var i int64
		err := UnmarshalValue(VC.Int64(1), i)
		require.IsType(t, InvalidUnmarshalError{}, err)
	})
	t.Run("nil pointer target", func(t *testing.T) {
		var p *int64
		err := UnmarshalValue(VC.Int64(1), p)
		require.IsType(t, InvalidUnmarshalError{}, err)
	})
}

func TestUnmarshalValue_Scalars(t *testing.T) {
	t.Run("matching kinds", func(t *testing.T) {
		var b bool
		require.NoError(t, UnmarshalValue(VC.Boolean(true), &b))
		require.True(t, b)

		var s string
		require.NoError(t, UnmarshalValue(VC.String("hi"), &s))
		require.Equal(t, "hi", s)

		var i32 int32
		require.NoError(t, UnmarshalValue(VC.Int32(-5), &i32))
		require.Equal(t, int32(-5), i32)

		var f float64
		require.NoError(t, UnmarshalValue(VC.Double(2.5), &f))
		require.Equal(t, 2.5, f)
	})
	t.Run("int32 widens into int64", func(t *testing.T) {
		var i int64
		require.NoError(t, UnmarshalValue(VC.Int32(7), &i))
		require.Equal(t, int64(7), i)

		require.NoError(t, UnmarshalValue(VC.Int64(1<<40), &i))
		require.Equal(t, int64(1<<40), i)
	})
	t.Run("int64 does not narrow into int32", func(t *testing.T) {
		var i int32
		err := UnmarshalValue(VC.Int64(7), &i)
		require.IsType(t, UnexpectedTypeError{}, err)
	})
	t.Run("int32 overflowing int8", func(t *testing.T) {
		var i int8
		err := UnmarshalValue(VC.Int32(1000), &i)
		require.IsType(t, UnexpectedTypeError{}, err)
	})
	t.Run("type mismatch", func(t *testing.T) {
		var i int64
		err := UnmarshalValue(VC.String("not a number"), &i)
		require.Equal(t, UnexpectedTypeError{Value: TypeString, Target: reflect.TypeOf(i)}, err)
	})
	t.Run("unsigned target", func(t *testing.T) {
		var u uint32
		require.Equal(t, ErrUnsupportedUnsignedType, UnmarshalValue(VC.Int32(1), &u))
	})
}

func TestUnmarshalValue_Null(t *testing.T) {
	i := int64(42)
	require.NoError(t, UnmarshalValue(VC.Null(), &i))
	require.Equal(t, int64(0), i)

	p := &i
	require.NoError(t, UnmarshalValue(VC.Null(), &p))
	require.Nil(t, p)
}

func TestUnmarshalValue_Pointers(t *testing.T) {
	var p *int64
	pp := &p
	require.NoError(t, UnmarshalValue(VC.Int64(9), pp))
	require.NotNil(t, p)
	require.Equal(t, int64(9), *p)
}

func TestUnmarshalValue_Interface(t *testing.T) {
	var out interface{}
	require.NoError(t, UnmarshalValue(VC.String("hi"), &out))
	require.Equal(t, "hi", out)

	require.NoError(t, UnmarshalValue(VC.Int32(5), &out))
	require.Equal(t, int32(5), out)
}

func TestUnmarshalValue_NativeTypes(t *testing.T) {
	oid := objectid.New()
	when := time.Unix(1234567890, 123e6).UTC()
	scope := NewDocument(EC.Int32("x", 1))

	var v Value
	require.NoError(t, UnmarshalValue(VC.Regex("^", "i"), &v))
	require.Equal(t, Regex{Pattern: "^", Options: "i"}, v.Regex())

	var d *Document
	require.NoError(t, UnmarshalValue(VC.Document(NewDocument(EC.Int32("a", 1))), &d))
	require.Equal(t, 1, d.Len())

	var a *Array
	require.NoError(t, UnmarshalValue(VC.Array(NewArray(VC.Null())), &a))
	require.Equal(t, 1, a.Len())

	var ts time.Time
	require.NoError(t, UnmarshalValue(VC.DateTime(when), &ts))
	require.True(t, when.Equal(ts))

	var id objectid.ObjectID
	require.NoError(t, UnmarshalValue(VC.ObjectID(oid), &id))
	require.Equal(t, oid, id)

	var stamp Timestamp
	require.NoError(t, UnmarshalValue(VC.Timestamp(1, 2), &stamp))
	require.Equal(t, Timestamp{T: 1, I: 2}, stamp)

	var r Regex
	require.NoError(t, UnmarshalValue(VC.Regex("^a", "x"), &r))
	require.Equal(t, Regex{Pattern: "^a", Options: "x"}, r)

	var bin Binary
	require.NoError(t, UnmarshalValue(VC.BinaryWithSubtype(TypeBinaryUUID, []byte{1}), &bin))
	require.Equal(t, Binary{Subtype: TypeBinaryUUID, Data: []byte{1}}, bin)

	var cws CodeWithScope
	require.NoError(t, UnmarshalValue(VC.CodeWithScope("f()", scope), &cws))
	require.Equal(t, "f()", cws.Code)
	require.True(t, scope.Equal(cws.Scope))

	var code JavaScriptCode
	require.NoError(t, UnmarshalValue(VC.JavaScript("g()"), &code))
	require.Equal(t, JavaScriptCode("g()"), code)

	var sym Symbol
	require.NoError(t, UnmarshalValue(VC.Symbol("s"), &sym))
	require.Equal(t, Symbol("s"), sym)

	// A mismatched value fails instead of zeroing the target.
	require.IsType(t, UnexpectedTypeError{}, UnmarshalValue(VC.Int32(1), &ts))
}

func TestUnmarshalValue_Sequences(t *testing.T) {
	t.Run("slice", func(t *testing.T) {
		var out []string
		require.NoError(t, UnmarshalValue(VC.Array(NewArray(VC.String("a"), VC.String("b"))), &out))
		require.Equal(t, []string{"a", "b"}, out)
	})
	t.Run("byte slice from binary", func(t *testing.T) {
		var out []byte
		require.NoError(t, UnmarshalValue(VC.Binary([]byte{0x01, 0x02}), &out))
		require.Equal(t, []byte{0x01, 0x02}, out)
	})
	t.Run("fixed array", func(t *testing.T) {
		var out [2]int32
		require.NoError(t, UnmarshalValue(VC.Array(NewArray(VC.Int32(1), VC.Int32(2))), &out))
		require.Equal(t, [2]int32{1, 2}, out)
	})
	t.Run("fixed array length mismatch", func(t *testing.T) {
		var out [3]int32
		err := UnmarshalValue(VC.Array(NewArray(VC.Int32(1))), &out)
		require.IsType(t, UnexpectedTypeError{}, err)
	})
}

func TestUnmarshalValue_Map(t *testing.T) {
	var out map[string]int64
	doc := NewDocument(EC.Int64("a", 1), EC.Int32("b", 2))
	require.NoError(t, UnmarshalValue(VC.Document(doc), &out))
	require.Equal(t, map[string]int64{"a": 1, "b": 2}, out)

	var bad map[int]string
	require.IsType(t, UnexpectedTypeError{}, UnmarshalValue(VC.Document(doc), &bad))
}

func TestUnmarshal_Structs(t *testing.T) {
	type record struct {
		Name  string `bson:"name,required"`
		Count int64  `bson:"count"`
	}

	t.Run("round trip", func(t *testing.T) {
		b, err := Marshal(record{Name: "n", Count: 3})
		require.NoError(t, err)

		var out record
		require.NoError(t, Unmarshal(b, &out))
		require.Equal(t, record{Name: "n", Count: 3}, out)
	})
	t.Run("unknown field", func(t *testing.T) {
		b, err := NewDocument(
			EC.String("name", "n"),
			EC.Int64("count", 3),
			EC.Boolean("extra", true),
		).MarshalBSON()
		require.NoError(t, err)

		var out record
		err = Unmarshal(b, &out)
		require.Equal(t, UnknownFieldError{Field: "extra"}, err)
	})
	t.Run("missing required field", func(t *testing.T) {
		b, err := NewDocument(EC.Int64("count", 3)).MarshalBSON()
		require.NoError(t, err)

		var out record
		err = Unmarshal(b, &out)
		require.Equal(t, MissingFieldError{Field: "name"}, err)
	})
	t.Run("missing optional field", func(t *testing.T) {
		b, err := NewDocument(EC.String("name", "n")).MarshalBSON()
		require.NoError(t, err)

		var out record
		require.NoError(t, Unmarshal(b, &out))
		require.Equal(t, record{Name: "n"}, out)
	})
}

type unmarshalableID struct {
	id objectid.ObjectID
}

func (u *unmarshalableID) UnmarshalBSONValue(v Value) error {
	oid, ok := v.ObjectIDOK()
	if !ok {
		return UnexpectedTypeError{Value: v.Type()}
	}
	u.id = oid
	return nil
}

func TestUnmarshalValue_ValueUnmarshaler(t *testing.T) {
	oid := objectid.New()

	var out unmarshalableID
	require.NoError(t, UnmarshalValue(VC.ObjectID(oid), &out))
	require.Equal(t, oid, out.id)
}

func TestUnmarshal_InvalidDocument(t *testing.T) {
	var out map[string]int64
	err := Unmarshal([]byte{0x01, 0x02}, &out)
	require.Error(t, err)
}
