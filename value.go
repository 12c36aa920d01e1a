// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"
	"strconv"
	"time"

	"github.com/danclive/bsonrs/objectid"
)

// Value represents a single BSON value. The zero Value is the BSON null.
//
// A Value is a tagged union over every type the wire format can carry
// natively. The Undefined, DBPointer, MaxKey, and MinKey element types are
// recognized on the wire but have no Value representation; decoding them
// returns an UnrecognizedTypeError.
type Value struct {
	// t is the element type of this value. The primitive property holds the
	// payload: a Go primitive for the scalar types, one of the value types
	// declared in value_types.go for the composite scalars, and *Document or
	// *Array for the embedding types.
	t         Type
	primitive interface{}
}

// Type returns the BSON type of this value.
func (v Value) Type() Type {
	if v.t == Type(0) {
		return TypeNull
	}
	return v.t
}

// IsNull returns true if this value is the BSON null.
func (v Value) IsNull() bool { return v.Type() == TypeNull }

// Double returns the BSON double value the Value represents. It panics if the
// value is a BSON type other than double.
func (v Value) Double() float64 {
	if v.t != TypeDouble {
		panic(ElementTypeError{"bson.Value.Double", v.Type()})
	}
	return v.primitive.(float64)
}

// DoubleOK is the same as Double, but returns a boolean instead of panicking.
func (v Value) DoubleOK() (float64, bool) {
	if v.t != TypeDouble {
		return 0, false
	}
	return v.Double(), true
}

// StringValue returns the BSON string the Value represents. It panics if the
// value is a BSON type other than string.
//
// NOTE: This method is called StringValue to avoid it implementing the
// fmt.Stringer interface.
func (v Value) StringValue() string {
	if v.t != TypeString {
		panic(ElementTypeError{"bson.Value.StringValue", v.Type()})
	}
	return v.primitive.(string)
}

// StringValueOK is the same as StringValue, but returns a boolean instead of
// panicking.
func (v Value) StringValueOK() (string, bool) {
	if v.t != TypeString {
		return "", false
	}
	return v.StringValue(), true
}

// Array returns the BSON array the Value represents. It panics if the value
// is a BSON type other than array.
func (v Value) Array() *Array {
	if v.t != TypeArray {
		panic(ElementTypeError{"bson.Value.Array", v.Type()})
	}
	return v.primitive.(*Array)
}

// ArrayOK is the same as Array, but returns a boolean instead of panicking.
func (v Value) ArrayOK() (*Array, bool) {
	if v.t != TypeArray {
		return nil, false
	}
	return v.Array(), true
}

// Document returns the BSON embedded document the Value represents. It panics
// if the value is a BSON type other than embedded document.
func (v Value) Document() *Document {
	if v.t != TypeEmbeddedDocument {
		panic(ElementTypeError{"bson.Value.Document", v.Type()})
	}
	return v.primitive.(*Document)
}

// DocumentOK is the same as Document, but returns a boolean instead of
// panicking.
func (v Value) DocumentOK() (*Document, bool) {
	if v.t != TypeEmbeddedDocument {
		return nil, false
	}
	return v.Document(), true
}

// Boolean returns the BSON boolean the Value represents. It panics if the
// value is a BSON type other than boolean.
func (v Value) Boolean() bool {
	if v.t != TypeBoolean {
		panic(ElementTypeError{"bson.Value.Boolean", v.Type()})
	}
	return v.primitive.(bool)
}

// BooleanOK is the same as Boolean, but returns a boolean instead of panicking.
func (v Value) BooleanOK() (bool, bool) {
	if v.t != TypeBoolean {
		return false, false
	}
	return v.Boolean(), true
}

// Regex returns the BSON regex the Value represents. It panics if the value
// is a BSON type other than regex.
func (v Value) Regex() Regex {
	if v.t != TypeRegex {
		panic(ElementTypeError{"bson.Value.Regex", v.Type()})
	}
	return v.primitive.(Regex)
}

// RegexOK is the same as Regex, but returns a boolean instead of panicking.
func (v Value) RegexOK() (Regex, bool) {
	if v.t != TypeRegex {
		return Regex{}, false
	}
	return v.Regex(), true
}

// JavaScript returns the BSON JavaScript code the Value represents. It panics
// if the value is a BSON type other than JavaScript code.
func (v Value) JavaScript() string {
	if v.t != TypeJavaScript {
		panic(ElementTypeError{"bson.Value.JavaScript", v.Type()})
	}
	return v.primitive.(string)
}

// JavaScriptOK is the same as JavaScript, but returns a boolean instead of
// panicking.
func (v Value) JavaScriptOK() (string, bool) {
	if v.t != TypeJavaScript {
		return "", false
	}
	return v.JavaScript(), true
}

// JavaScriptWithScope returns the BSON code with scope the Value represents.
// It panics if the value is a BSON type other than code with scope.
func (v Value) JavaScriptWithScope() (string, *Document) {
	if v.t != TypeCodeWithScope {
		panic(ElementTypeError{"bson.Value.JavaScriptWithScope", v.Type()})
	}
	cws := v.primitive.(CodeWithScope)
	return cws.Code, cws.Scope
}

// JavaScriptWithScopeOK is the same as JavaScriptWithScope, but returns a
// boolean instead of panicking.
func (v Value) JavaScriptWithScopeOK() (string, *Document, bool) {
	if v.t != TypeCodeWithScope {
		return "", nil, false
	}
	code, scope := v.JavaScriptWithScope()
	return code, scope, true
}

// Int32 returns the BSON int32 the Value represents. It panics if the value
// is a BSON type other than int32.
func (v Value) Int32() int32 {
	if v.t != TypeInt32 {
		panic(ElementTypeError{"bson.Value.Int32", v.Type()})
	}
	return v.primitive.(int32)
}

// Int32OK is the same as Int32, but returns a boolean instead of panicking.
func (v Value) Int32OK() (int32, bool) {
	if v.t != TypeInt32 {
		return 0, false
	}
	return v.Int32(), true
}

// Int64 returns the BSON int64 the Value represents. It panics if the value
// is a BSON type other than int64.
func (v Value) Int64() int64 {
	if v.t != TypeInt64 {
		panic(ElementTypeError{"bson.Value.Int64", v.Type()})
	}
	return v.primitive.(int64)
}

// Int64OK is the same as Int64, but returns a boolean instead of panicking.
func (v Value) Int64OK() (int64, bool) {
	if v.t != TypeInt64 {
		return 0, false
	}
	return v.Int64(), true
}

// Timestamp returns the BSON timestamp the Value represents. It panics if the
// value is a BSON type other than timestamp.
func (v Value) Timestamp() Timestamp {
	if v.t != TypeTimestamp {
		panic(ElementTypeError{"bson.Value.Timestamp", v.Type()})
	}
	return v.primitive.(Timestamp)
}

// TimestampOK is the same as Timestamp, but returns a boolean instead of
// panicking.
func (v Value) TimestampOK() (Timestamp, bool) {
	if v.t != TypeTimestamp {
		return Timestamp{}, false
	}
	return v.Timestamp(), true
}

// Binary returns the BSON binary the Value represents. It panics if the value
// is a BSON type other than binary.
func (v Value) Binary() Binary {
	if v.t != TypeBinary {
		panic(ElementTypeError{"bson.Value.Binary", v.Type()})
	}
	return v.primitive.(Binary)
}

// BinaryOK is the same as Binary, but returns a boolean instead of panicking.
func (v Value) BinaryOK() (Binary, bool) {
	if v.t != TypeBinary {
		return Binary{}, false
	}
	return v.Binary(), true
}

// ObjectID returns the BSON objectid the Value represents. It panics if the
// value is a BSON type other than objectid.
func (v Value) ObjectID() objectid.ObjectID {
	if v.t != TypeObjectID {
		panic(ElementTypeError{"bson.Value.ObjectID", v.Type()})
	}
	return v.primitive.(objectid.ObjectID)
}

// ObjectIDOK is the same as ObjectID, but returns a boolean instead of
// panicking.
func (v Value) ObjectIDOK() (objectid.ObjectID, bool) {
	if v.t != TypeObjectID {
		return objectid.ObjectID{}, false
	}
	return v.ObjectID(), true
}

// DateTime returns the BSON datetime the Value represents as milliseconds
// since the Unix epoch. It panics if the value is a BSON type other than
// datetime.
func (v Value) DateTime() int64 {
	t := v.Time()
	return t.Unix()*1000 + int64(t.Nanosecond()/1e6)
}

// Time returns the BSON datetime the Value represents. It panics if the value
// is a BSON type other than datetime.
func (v Value) Time() time.Time {
	if v.t != TypeDateTime {
		panic(ElementTypeError{"bson.Value.Time", v.Type()})
	}
	return v.primitive.(time.Time)
}

// TimeOK is the same as Time, but returns a boolean instead of panicking.
func (v Value) TimeOK() (time.Time, bool) {
	if v.t != TypeDateTime {
		return time.Time{}, false
	}
	return v.Time(), true
}

// Symbol returns the BSON symbol the Value represents. It panics if the value
// is a BSON type other than symbol.
func (v Value) Symbol() string {
	if v.t != TypeSymbol {
		panic(ElementTypeError{"bson.Value.Symbol", v.Type()})
	}
	return v.primitive.(string)
}

// SymbolOK is the same as Symbol, but returns a boolean instead of panicking.
func (v Value) SymbolOK() (string, bool) {
	if v.t != TypeSymbol {
		return "", false
	}
	return v.Symbol(), true
}

// Interface returns the Go value of this Value as an empty interface.
func (v Value) Interface() interface{} {
	switch v.Type() {
	case TypeDouble:
		return v.Double()
	case TypeString:
		return v.StringValue()
	case TypeEmbeddedDocument:
		return v.Document()
	case TypeArray:
		return v.Array()
	case TypeBinary:
		return v.Binary()
	case TypeObjectID:
		return v.ObjectID()
	case TypeBoolean:
		return v.Boolean()
	case TypeDateTime:
		return v.Time()
	case TypeNull:
		return nil
	case TypeRegex:
		return v.Regex()
	case TypeJavaScript:
		return JavaScriptCode(v.JavaScript())
	case TypeSymbol:
		return Symbol(v.Symbol())
	case TypeCodeWithScope:
		code, scope := v.JavaScriptWithScope()
		return CodeWithScope{Code: code, Scope: scope}
	case TypeInt32:
		return v.Int32()
	case TypeTimestamp:
		return v.Timestamp()
	case TypeInt64:
		return v.Int64()
	default:
		return nil
	}
}

// Equal compares v to v2 and returns true if they are equal. Documents and
// arrays compare structurally, including element order.
func (v Value) Equal(v2 Value) bool {
	if v.Type() != v2.Type() {
		return false
	}

	switch v.Type() {
	case TypeEmbeddedDocument:
		return v.Document().Equal(v2.Document())
	case TypeArray:
		return v.Array().Equal(v2.Array())
	case TypeBinary:
		return v.Binary().Equal(v2.Binary())
	case TypeDateTime:
		return v.Time().Equal(v2.Time())
	case TypeCodeWithScope:
		return v.primitive.(CodeWithScope).Equal(v2.primitive.(CodeWithScope))
	case TypeNull:
		return true
	default:
		return v.primitive == v2.primitive
	}
}

func (v Value) String() string {
	switch v.Type() {
	case TypeDouble:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case TypeString:
		return strconv.Quote(v.StringValue())
	case TypeEmbeddedDocument:
		return v.Document().String()
	case TypeArray:
		return v.Array().String()
	case TypeBinary:
		bin := v.Binary()
		return fmt.Sprintf("BinData(%d, 0x%x)", bin.Subtype, bin.Data)
	case TypeObjectID:
		return v.ObjectID().String()
	case TypeBoolean:
		return strconv.FormatBool(v.Boolean())
	case TypeDateTime:
		return fmt.Sprintf("Date(%q)", v.Time().UTC().Format(time.RFC3339Nano))
	case TypeNull:
		return "null"
	case TypeRegex:
		r := v.Regex()
		return "/" + r.Pattern + "/" + r.Options
	case TypeJavaScript:
		return v.JavaScript()
	case TypeSymbol:
		return fmt.Sprintf("Symbol(%q)", v.Symbol())
	case TypeCodeWithScope:
		code, _ := v.JavaScriptWithScope()
		return code
	case TypeInt32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case TypeInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case TypeTimestamp:
		ts := v.Timestamp()
		return fmt.Sprintf("Timestamp(%d, %d)", ts.T, ts.I)
	default:
		return "invalid"
	}
}

// VC is a convenience variable provided for access to the ValueConstructor methods.
var VC ValueConstructor

// ValueConstructor is used as a namespace for value constructor functions.
type ValueConstructor struct{}

// Double constructs a BSON double Value.
func (ValueConstructor) Double(f float64) Value {
	return Value{t: TypeDouble, primitive: f}
}

// String constructs a BSON string Value.
func (ValueConstructor) String(s string) Value {
	return Value{t: TypeString, primitive: s}
}

// Document constructs a Value from the given *Document. A nil document
// becomes the BSON null.
func (ValueConstructor) Document(d *Document) Value {
	if d == nil {
		return VC.Null()
	}
	return Value{t: TypeEmbeddedDocument, primitive: d}
}

// Array constructs a Value from the given *Array. A nil array becomes the
// BSON null.
func (ValueConstructor) Array(a *Array) Value {
	if a == nil {
		return VC.Null()
	}
	return Value{t: TypeArray, primitive: a}
}

// Binary constructs a BSON binary Value with the generic subtype.
func (ValueConstructor) Binary(data []byte) Value {
	return VC.BinaryWithSubtype(TypeBinaryGeneric, data)
}

// BinaryWithSubtype constructs a BSON binary Value with the given subtype.
func (ValueConstructor) BinaryWithSubtype(subtype byte, data []byte) Value {
	return Value{t: TypeBinary, primitive: Binary{Subtype: subtype, Data: data}}
}

// ObjectID constructs a BSON objectid Value.
func (ValueConstructor) ObjectID(oid objectid.ObjectID) Value {
	return Value{t: TypeObjectID, primitive: oid}
}

// Boolean constructs a BSON boolean Value.
func (ValueConstructor) Boolean(b bool) Value {
	return Value{t: TypeBoolean, primitive: b}
}

// DateTime constructs a BSON datetime Value from the given time. The wire
// format carries milliseconds, so sub-millisecond precision is dropped when
// the value is encoded.
func (ValueConstructor) DateTime(t time.Time) Value {
	return Value{t: TypeDateTime, primitive: t}
}

// Null constructs a BSON null Value.
func (ValueConstructor) Null() Value {
	return Value{t: TypeNull}
}

// Regex constructs a BSON regex Value.
func (ValueConstructor) Regex(pattern, options string) Value {
	return Value{t: TypeRegex, primitive: Regex{Pattern: pattern, Options: options}}
}

// JavaScript constructs a BSON JavaScript code Value.
func (ValueConstructor) JavaScript(code string) Value {
	return Value{t: TypeJavaScript, primitive: code}
}

// Symbol constructs a BSON symbol Value.
func (ValueConstructor) Symbol(s string) Value {
	return Value{t: TypeSymbol, primitive: s}
}

// CodeWithScope constructs a BSON code with scope Value.
func (ValueConstructor) CodeWithScope(code string, scope *Document) Value {
	return Value{t: TypeCodeWithScope, primitive: CodeWithScope{Code: code, Scope: scope}}
}

// Int32 constructs a BSON int32 Value.
func (ValueConstructor) Int32(i int32) Value {
	return Value{t: TypeInt32, primitive: i}
}

// Timestamp constructs a BSON timestamp Value.
func (ValueConstructor) Timestamp(t uint32, i uint32) Value {
	return Value{t: TypeTimestamp, primitive: Timestamp{T: t, I: i}}
}

// Int64 constructs a BSON int64 Value.
func (ValueConstructor) Int64(i int64) Value {
	return Value{t: TypeInt64, primitive: i}
}

// Interface will attempt to turn the provided value into a BSON Value. For
// common types this is done by type casting; anything more complex, such as a
// map or struct, goes through MarshalValue's reflection path. If the value
// cannot be converted, a BSON null Value is returned.
func (ValueConstructor) Interface(value interface{}) Value {
	var v Value
	switch t := value.(type) {
	case bool:
		v = VC.Boolean(t)
	case int8:
		v = VC.Int32(int32(t))
	case int16:
		v = VC.Int32(int32(t))
	case int32:
		v = VC.Int32(t)
	case int:
		v = VC.Int64(int64(t))
	case int64:
		v = VC.Int64(t)
	case float32:
		v = VC.Double(float64(t))
	case float64:
		v = VC.Double(t)
	case string:
		v = VC.String(t)
	case []byte:
		v = VC.Binary(t)
	case *Document:
		v = VC.Document(t)
	case *Array:
		v = VC.Array(t)
	case objectid.ObjectID:
		v = VC.ObjectID(t)
	case time.Time:
		v = VC.DateTime(t)
	case Timestamp:
		v = VC.Timestamp(t.T, t.I)
	case Regex:
		v = VC.Regex(t.Pattern, t.Options)
	case Binary:
		v = VC.BinaryWithSubtype(t.Subtype, t.Data)
	case JavaScriptCode:
		v = VC.JavaScript(string(t))
	case Symbol:
		v = VC.Symbol(string(t))
	case CodeWithScope:
		v = VC.CodeWithScope(t.Code, t.Scope)
	case Value:
		v = t
	case nil:
		v = VC.Null()
	default:
		mv, err := MarshalValue(value)
		if err != nil {
			return VC.Null()
		}
		v = mv
	}
	return v
}
