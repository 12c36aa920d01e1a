// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"
	"time"

	"github.com/danclive/bsonrs/objectid"
)

// Element represents a BSON element, i.e. a key-value pair inside a document.
type Element struct {
	Key   string
	Value Value
}

// Equal compares e to e2 and returns true if they are equal.
func (e Element) Equal(e2 Element) bool {
	return e.Key == e2.Key && e.Value.Equal(e2.Value)
}

func (e Element) String() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Value)
}

// ElementTypeError specifies that a method to obtain a BSON value an incorrect
// type was called on a bson.Value.
type ElementTypeError struct {
	Method string
	Type   Type
}

// Error implements the error interface.
func (ete ElementTypeError) Error() string {
	return "Call of " + ete.Method + " on " + ete.Type.String() + " type"
}

// EC is a convenience variable provided for access to the ElementConstructor methods.
var EC ElementConstructor

// ElementConstructor is used as a namespace for element constructor functions.
type ElementConstructor struct{}

// Double creates a double element with the given key and value.
func (ElementConstructor) Double(key string, f float64) Element {
	return Element{Key: key, Value: VC.Double(f)}
}

// String creates a string element with the given key and value.
func (ElementConstructor) String(key string, val string) Element {
	return Element{Key: key, Value: VC.String(val)}
}

// SubDocument creates a subdocument element with the given key and value.
func (ElementConstructor) SubDocument(key string, d *Document) Element {
	return Element{Key: key, Value: VC.Document(d)}
}

// Array creates an array element with the given key and value.
func (ElementConstructor) Array(key string, a *Array) Element {
	return Element{Key: key, Value: VC.Array(a)}
}

// Binary creates a binary element with the given key and value.
func (ElementConstructor) Binary(key string, b []byte) Element {
	return Element{Key: key, Value: VC.Binary(b)}
}

// BinaryWithSubtype creates a binary element with the given key, subtype, and value.
func (ElementConstructor) BinaryWithSubtype(key string, subtype byte, b []byte) Element {
	return Element{Key: key, Value: VC.BinaryWithSubtype(subtype, b)}
}

// ObjectID creates an objectid element with the given key and value.
func (ElementConstructor) ObjectID(key string, oid objectid.ObjectID) Element {
	return Element{Key: key, Value: VC.ObjectID(oid)}
}

// Boolean creates a boolean element with the given key and value.
func (ElementConstructor) Boolean(key string, b bool) Element {
	return Element{Key: key, Value: VC.Boolean(b)}
}

// DateTime creates a UTC datetime element with the given key and value.
func (ElementConstructor) DateTime(key string, t time.Time) Element {
	return Element{Key: key, Value: VC.DateTime(t)}
}

// Null creates a null element with the given key.
func (ElementConstructor) Null(key string) Element {
	return Element{Key: key, Value: VC.Null()}
}

// Regex creates a regex element with the given key and value.
func (ElementConstructor) Regex(key string, pattern, options string) Element {
	return Element{Key: key, Value: VC.Regex(pattern, options)}
}

// JavaScript creates a JavaScript code element with the given key and value.
func (ElementConstructor) JavaScript(key string, code string) Element {
	return Element{Key: key, Value: VC.JavaScript(code)}
}

// CodeWithScope creates a JavaScript code with scope element with the given key and value.
func (ElementConstructor) CodeWithScope(key string, code string, scope *Document) Element {
	return Element{Key: key, Value: VC.CodeWithScope(code, scope)}
}

// Int32 creates an int32 element with the given key and value.
func (ElementConstructor) Int32(key string, i int32) Element {
	return Element{Key: key, Value: VC.Int32(i)}
}

// Timestamp creates a timestamp element with the given key and value.
func (ElementConstructor) Timestamp(key string, t uint32, i uint32) Element {
	return Element{Key: key, Value: VC.Timestamp(t, i)}
}

// Int64 creates an int64 element with the given key and value.
func (ElementConstructor) Int64(key string, i int64) Element {
	return Element{Key: key, Value: VC.Int64(i)}
}

// Symbol creates a symbol element with the given key and value.
func (ElementConstructor) Symbol(key string, val string) Element {
	return Element{Key: key, Value: VC.Symbol(val)}
}
