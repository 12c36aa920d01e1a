// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/danclive/bsonrs/objectid"
)

// ErrUnsupportedUnsignedType indicates that a value with an unsigned integer
// type was given to MarshalValue. The wire format has no unsigned integer
// representation, and a silent cast could change the value, so unsigned types
// are rejected outright.
var ErrUnsupportedUnsignedType = errors.New("bson does not support unsigned integer types")

// ErrInvalidDocumentType indicates that a type which doesn't represent a BSON
// document was provided when a document was expected.
var ErrInvalidDocumentType = errors.New("invalid document type")

// InvalidMapKeyTypeError indicates that a map key did not serialize to a
// plain string.
type InvalidMapKeyTypeError struct {
	Value Value
}

// Error implements the error interface.
func (e InvalidMapKeyTypeError) Error() string {
	return fmt.Sprintf("invalid map key type: %s value %s", e.Value.Type(), e.Value)
}

// UnsupportedTypeError indicates that MarshalValue has no mapping for the
// given Go type.
type UnsupportedTypeError struct {
	Type reflect.Type
}

// Error implements the error interface.
func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s", e.Type)
}

// ValueMarshaler is the interface implemented by types that can turn
// themselves into a Value.
type ValueMarshaler interface {
	MarshalBSONValue() (Value, error)
}

// Marshal converts the given value into a Value tree via MarshalValue and
// serializes it to the binary wire format. The value must convert to a
// document; anything that becomes a non-document Value is
// ErrInvalidDocumentType.
func Marshal(value interface{}) ([]byte, error) {
	v, err := MarshalValue(value)
	if err != nil {
		return nil, err
	}
	doc, ok := v.DocumentOK()
	if !ok {
		return nil, ErrInvalidDocumentType
	}
	return doc.MarshalBSON()
}

// MarshalValue converts an arbitrary Go value into a Value tree.
//
// Booleans, signed integers (widened to int32 or int64), floats (widened to
// double), and strings map onto the corresponding scalar. []byte becomes a
// generic-subtype binary. Other slices and arrays become BSON arrays. Maps
// become documents provided every key is a plain string; the key order in
// the resulting document is sorted, since Go maps have no iteration order to
// preserve. Structs become documents in field declaration order, honoring
// bson struct tags. Nil pointers, nil interfaces, and untyped nil become
// null. Unsigned integer kinds fail with ErrUnsupportedUnsignedType.
//
// Value, *Document, *Array, time.Time, objectid.ObjectID, and the value
// types declared in value_types.go pass through natively. A type
// implementing ValueMarshaler converts through its own MarshalBSONValue.
func MarshalValue(value interface{}) (Value, error) {
	if value == nil {
		return VC.Null(), nil
	}

	switch t := value.(type) {
	case Value:
		return t, nil
	case *Document:
		return VC.Document(t), nil
	case *Array:
		return VC.Array(t), nil
	case []byte:
		return VC.Binary(t), nil
	case time.Time:
		return VC.DateTime(t), nil
	case objectid.ObjectID:
		return VC.ObjectID(t), nil
	case Timestamp:
		return VC.Timestamp(t.T, t.I), nil
	case Regex:
		return VC.Regex(t.Pattern, t.Options), nil
	case Binary:
		return VC.BinaryWithSubtype(t.Subtype, t.Data), nil
	case JavaScriptCode:
		return VC.JavaScript(string(t)), nil
	case Symbol:
		return VC.Symbol(string(t)), nil
	case CodeWithScope:
		return VC.CodeWithScope(t.Code, t.Scope), nil
	case ValueMarshaler:
		return t.MarshalBSONValue()
	}

	return marshalReflect(reflect.ValueOf(value))
}

func marshalReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return VC.Boolean(rv.Bool()), nil
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return VC.Int32(int32(rv.Int())), nil
	case reflect.Int, reflect.Int64:
		return VC.Int64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Value{}, ErrUnsupportedUnsignedType
	case reflect.Float32, reflect.Float64:
		return VC.Double(rv.Float()), nil
	case reflect.String:
		return VC.String(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return VC.Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return VC.Binary(rv.Bytes()), nil
		}
		return marshalSequence(rv)
	case reflect.Array:
		return marshalSequence(rv)
	case reflect.Map:
		return marshalMap(rv)
	case reflect.Struct:
		return marshalStruct(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return VC.Null(), nil
		}
		return MarshalValue(rv.Elem().Interface())
	default:
		return Value{}, UnsupportedTypeError{Type: rv.Type()}
	}
}

func marshalSequence(rv reflect.Value) (Value, error) {
	arr := NewArray()
	for i := 0; i < rv.Len(); i++ {
		v, err := MarshalValue(rv.Index(i).Interface())
		if err != nil {
			return Value{}, err
		}
		arr.Append(v)
	}
	return VC.Array(arr), nil
}

func marshalMap(rv reflect.Value) (Value, error) {
	if rv.IsNil() {
		return VC.Null(), nil
	}

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})

	doc := NewDocument()
	for _, k := range keys {
		kv, err := MarshalValue(k.Interface())
		if err != nil {
			return Value{}, err
		}
		key, ok := kv.StringValueOK()
		if !ok {
			return Value{}, InvalidMapKeyTypeError{Value: kv}
		}
		v, err := MarshalValue(rv.MapIndex(k).Interface())
		if err != nil {
			return Value{}, err
		}
		doc.Set(key, v)
	}
	return VC.Document(doc), nil
}

func marshalStruct(rv reflect.Value) (Value, error) {
	rt := rv.Type()
	doc := NewDocument()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		st := parseStructTag(sf)
		if st.Skip {
			continue
		}
		fv := rv.Field(i)
		if st.OmitEmpty && isEmptyValue(fv) {
			continue
		}
		v, err := MarshalValue(fv.Interface())
		if err != nil {
			return Value{}, errors.Wrapf(err, "unable to marshal field %q", st.Name)
		}
		doc.Set(st.Name, v)
	}
	return VC.Document(doc), nil
}
