// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"
	"reflect"
	"time"

	"github.com/danclive/bsonrs/objectid"
)

var (
	tValue          = reflect.TypeOf(Value{})
	tDocument       = reflect.TypeOf((*Document)(nil))
	tArray          = reflect.TypeOf((*Array)(nil))
	tTime           = reflect.TypeOf(time.Time{})
	tOID            = reflect.TypeOf(objectid.ObjectID{})
	tTimestamp      = reflect.TypeOf(Timestamp{})
	tRegex          = reflect.TypeOf(Regex{})
	tBinary         = reflect.TypeOf(Binary{})
	tCodeWithScope  = reflect.TypeOf(CodeWithScope{})
	tJavaScriptCode = reflect.TypeOf(JavaScriptCode(""))
	tSymbol         = reflect.TypeOf(Symbol(""))
)

// InvalidUnmarshalError indicates that the target passed to Unmarshal or
// UnmarshalValue was not a non-nil pointer.
type InvalidUnmarshalError struct {
	Type reflect.Type
}

// Error implements the error interface.
func (e InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "unmarshal target is nil"
	}
	if e.Type.Kind() != reflect.Ptr {
		return "unmarshal target is not a pointer: " + e.Type.String()
	}
	return "unmarshal target is a nil pointer: " + e.Type.String()
}

// UnknownFieldError indicates that a document element has no destination
// field in the struct being unmarshaled into. Extra data is reported rather
// than silently dropped so callers can tell it apart from malformed data.
type UnknownFieldError struct {
	Field string
}

// Error implements the error interface.
func (e UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// MissingFieldError indicates that a struct field marked required had no
// element in the document being unmarshaled.
type MissingFieldError struct {
	Field string
}

// Error implements the error interface.
func (e MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// UnexpectedTypeError indicates that a Value could not be decoded into the
// target Go type.
type UnexpectedTypeError struct {
	Value  Type
	Target reflect.Type
}

// Error implements the error interface.
func (e UnexpectedTypeError) Error() string {
	return fmt.Sprintf("cannot decode %s value into %s", e.Value, e.Target)
}

// ValueUnmarshaler is the interface implemented by types that can populate
// themselves from a Value.
type ValueUnmarshaler interface {
	UnmarshalBSONValue(Value) error
}

// Unmarshal decodes one BSON document from data and stores the result in the
// value pointed to by target.
func Unmarshal(data []byte, target interface{}) error {
	doc, err := ReadDocument(data)
	if err != nil {
		return err
	}
	return UnmarshalValue(VC.Document(doc), target)
}

// UnmarshalValue walks the Value tree and stores the result in the value
// pointed to by target. It is the mirror of MarshalValue: documents fill
// structs (honoring bson struct tags) and string-keyed maps, arrays fill
// slices and fixed-size arrays, scalars fill the matching Go kinds with
// int32 widening into 64-bit targets, and null clears the target. Unsigned
// integer targets are rejected with ErrUnsupportedUnsignedType.
func UnmarshalValue(v Value, target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return InvalidUnmarshalError{Type: reflect.TypeOf(target)}
	}
	return unmarshalValue(v, rv.Elem())
}

func unmarshalValue(v Value, rv reflect.Value) error {
	if rv.CanAddr() {
		if u, ok := rv.Addr().Interface().(ValueUnmarshaler); ok {
			return u.UnmarshalBSONValue(v)
		}
	}

	if v.IsNull() {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	switch rv.Type() {
	case tValue:
		rv.Set(reflect.ValueOf(v))
		return nil
	case tDocument:
		doc, ok := v.DocumentOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.Set(reflect.ValueOf(doc))
		return nil
	case tArray:
		arr, ok := v.ArrayOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.Set(reflect.ValueOf(arr))
		return nil
	case tTime:
		t, ok := v.TimeOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	case tOID:
		oid, ok := v.ObjectIDOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.Set(reflect.ValueOf(oid))
		return nil
	case tTimestamp:
		ts, ok := v.TimestampOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.Set(reflect.ValueOf(ts))
		return nil
	case tRegex:
		r, ok := v.RegexOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.Set(reflect.ValueOf(r))
		return nil
	case tBinary:
		bin, ok := v.BinaryOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.Set(reflect.ValueOf(bin))
		return nil
	case tCodeWithScope:
		code, scope, ok := v.JavaScriptWithScopeOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.Set(reflect.ValueOf(CodeWithScope{Code: code, Scope: scope}))
		return nil
	case tJavaScriptCode:
		code, ok := v.JavaScriptOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.SetString(code)
		return nil
	case tSymbol:
		s, ok := v.SymbolOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.SetString(s)
		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return unmarshalValue(v, rv.Elem())
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.Set(reflect.ValueOf(v.Interface()))
		return nil
	case reflect.Bool:
		b, ok := v.BooleanOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.SetBool(b)
		return nil
	case reflect.String:
		s, ok := v.StringValueOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.SetString(s)
		return nil
	case reflect.Int8, reflect.Int16, reflect.Int32:
		i, ok := v.Int32OK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		if rv.OverflowInt(int64(i)) {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.SetInt(int64(i))
		return nil
	case reflect.Int, reflect.Int64:
		// int32 widens losslessly into a 64-bit target.
		if i, ok := v.Int32OK(); ok {
			rv.SetInt(int64(i))
			return nil
		}
		i, ok := v.Int64OK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ErrUnsupportedUnsignedType
	case reflect.Float32, reflect.Float64:
		f, ok := v.DoubleOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		rv.SetFloat(f)
		return nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			bin, ok := v.BinaryOK()
			if !ok {
				return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
			}
			rv.SetBytes(append([]byte(nil), bin.Data...))
			return nil
		}
		arr, ok := v.ArrayOK()
		if !ok {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		out := reflect.MakeSlice(rv.Type(), arr.Len(), arr.Len())
		for i, item := range arr.Values() {
			if err := unmarshalValue(item, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		arr, ok := v.ArrayOK()
		if !ok || arr.Len() != rv.Len() {
			return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
		}
		for i, item := range arr.Values() {
			if err := unmarshalValue(item, rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		return unmarshalMap(v, rv)
	case reflect.Struct:
		return unmarshalStruct(v, rv)
	default:
		return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
	}
}

func unmarshalMap(v Value, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
	}
	doc, ok := v.DocumentOK()
	if !ok {
		return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
	}

	out := reflect.MakeMapWithSize(rv.Type(), doc.Len())
	elemType := rv.Type().Elem()
	itr := doc.Iterator()
	for itr.Next() {
		elem := itr.Element()
		target := reflect.New(elemType).Elem()
		if err := unmarshalValue(elem.Value, target); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(elem.Key).Convert(rv.Type().Key()), target)
	}
	rv.Set(out)
	return nil
}

func unmarshalStruct(v Value, rv reflect.Value) error {
	doc, ok := v.DocumentOK()
	if !ok {
		return UnexpectedTypeError{Value: v.Type(), Target: rv.Type()}
	}

	rt := rv.Type()
	fields := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		st := parseStructTag(sf)
		if st.Skip {
			continue
		}
		fields[st.Name] = i
	}

	seen := make(map[string]bool, doc.Len())
	itr := doc.Iterator()
	for itr.Next() {
		elem := itr.Element()
		i, ok := fields[elem.Key]
		if !ok {
			return UnknownFieldError{Field: elem.Key}
		}
		if err := unmarshalValue(elem.Value, rv.Field(i)); err != nil {
			return err
		}
		seen[elem.Key] = true
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		st := parseStructTag(sf)
		if st.Required && !seen[st.Name] {
			return MissingFieldError{Field: st.Name}
		}
	}
	return nil
}
