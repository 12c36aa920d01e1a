// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"strings"
	"time"

	"github.com/danclive/bsonrs/objectid"
)

// ErrEmptyKey indicates that no key was provided to a Lookup method.
var ErrEmptyKey = errors.New("empty key provided")

// ErrElementNotFound indicates that an Element matching a certain condition does not exist.
var ErrElementNotFound = errors.New("element not found")

// ErrOutOfBounds indicates that an index provided to access something was invalid.
var ErrOutOfBounds = errors.New("out of bounds")

// ErrNilDocument indicates that an operation was attempted on a nil *bson.Document.
var ErrNilDocument = errors.New("document is nil")

// Document is a mutable ordered map that represents a BSON document. Keys are
// unique and insertion order is preserved across every operation, including
// encode/decode round trips.
//
// A Document and everything nested below it is exclusively owned by its
// holder. Independent documents may be used from independent goroutines, but
// a single Document must not be shared without external synchronization.
type Document struct {
	elems []Element
	index map[string]int
}

// NewDocument creates a Document from the provided elements, in order.
func NewDocument(elems ...Element) *Document {
	doc := &Document{
		elems: make([]Element, 0, len(elems)),
		index: make(map[string]int, len(elems)),
	}
	doc.Append(elems...)
	return doc
}

// Len returns the number of elements in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.elems)
}

// Contains returns true if the document has an element with the given key.
func (d *Document) Contains(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[key]
	return ok
}

// Keys returns the keys of the document in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.elems))
	for _, elem := range d.elems {
		keys = append(keys, elem.Key)
	}
	return keys
}

// Lookup returns the value stored under the given key. The second return
// value reports whether the key was present.
func (d *Document) Lookup(key string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	i, ok := d.index[key]
	if !ok {
		return Value{}, false
	}
	return d.elems[i].Value, true
}

// LookupElement returns a pointer to the element stored under the given key,
// which can be used to mutate the value in place. The pointer is valid until
// the next mutation of the document.
func (d *Document) LookupElement(key string) (*Element, error) {
	if d == nil {
		return nil, ErrNilDocument
	}
	if key == "" {
		return nil, ErrEmptyKey
	}
	i, ok := d.index[key]
	if !ok {
		return nil, ErrElementNotFound
	}
	return &d.elems[i], nil
}

// Set stores val under key. If the key already exists its value is replaced
// and the key keeps its original position in iteration order; the previous
// value is returned with replaced set to true. Otherwise the element is
// appended to the end of the document.
func (d *Document) Set(key string, val Value) (prev Value, replaced bool) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		prev = d.elems[i].Value
		d.elems[i].Value = val
		return prev, true
	}
	d.elems = append(d.elems, Element{Key: key, Value: val})
	d.index[key] = len(d.elems) - 1
	return Value{}, false
}

// Append adds each element to the end of the document, in order. An element
// whose key already exists replaces the existing value in place, keeping the
// key's original position.
func (d *Document) Append(elems ...Element) *Document {
	for _, elem := range elems {
		d.Set(elem.Key, elem.Value)
	}
	return d
}

// Delete removes the element with the given key, preserving the relative
// order of the remaining elements. The cost is proportional to the number of
// elements after the removed one. The removed value is returned; ok is false
// if the key did not exist.
func (d *Document) Delete(key string) (val Value, ok bool) {
	if d == nil {
		return Value{}, false
	}
	i, present := d.index[key]
	if !present {
		return Value{}, false
	}
	val = d.elems[i].Value
	d.elems = append(d.elems[:i], d.elems[i+1:]...)
	delete(d.index, key)
	// Only the shifted elements changed position.
	for j := i; j < len(d.elems); j++ {
		d.index[d.elems[j].Key] = j
	}
	return val, true
}

// SwapDelete removes the element with the given key in constant time by
// moving the last element into the removed slot. Iteration order is not
// preserved. The removed value is returned; ok is false if the key did not
// exist.
func (d *Document) SwapDelete(key string) (val Value, ok bool) {
	if d == nil {
		return Value{}, false
	}
	i, present := d.index[key]
	if !present {
		return Value{}, false
	}
	val = d.elems[i].Value
	last := len(d.elems) - 1
	if i != last {
		d.elems[i] = d.elems[last]
		d.index[d.elems[i].Key] = i
	}
	d.elems = d.elems[:last]
	delete(d.index, key)
	return val, true
}

// ElementAt retrieves the element at the given position in insertion order.
func (d *Document) ElementAt(index uint) (Element, error) {
	if d == nil || int(index) >= len(d.elems) {
		return Element{}, ErrOutOfBounds
	}
	return d.elems[index], nil
}

// PopFirst removes and returns the first element of the document, for
// queue-like consumption. ok is false if the document is empty.
func (d *Document) PopFirst() (Element, bool) {
	if d.Len() == 0 {
		return Element{}, false
	}
	elem := d.elems[0]
	d.Delete(elem.Key)
	return elem, true
}

// Iterator creates an Iterator for this document and returns it.
func (d *Document) Iterator() *Iterator {
	return &Iterator{d: d}
}

// Reset clears a document so it can be reused.
func (d *Document) Reset() {
	d.elems = d.elems[:0]
	for k := range d.index {
		delete(d.index, k)
	}
}

// Equal compares d to d2 and returns true if they hold the same elements in
// the same order.
func (d *Document) Equal(d2 *Document) bool {
	if d.Len() != d2.Len() {
		return false
	}
	for i := range d.elems {
		if !d.elems[i].Equal(d2.elems[i]) {
			return false
		}
	}
	return true
}

func (d *Document) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, elem := range d.elems {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(elem.String())
	}
	if len(d.elems) > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteByte('}')
	return sb.String()
}

// GetDouble returns the double stored under key. ErrElementNotFound is
// returned if the key does not exist and an ElementTypeError if the value is
// not a double.
func (d *Document) GetDouble(key string) (float64, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return 0, ErrElementNotFound
	}
	f, ok := v.DoubleOK()
	if !ok {
		return 0, ElementTypeError{"bson.Document.GetDouble", v.Type()}
	}
	return f, nil
}

// GetString returns the string stored under key.
func (d *Document) GetString(key string) (string, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return "", ErrElementNotFound
	}
	s, ok := v.StringValueOK()
	if !ok {
		return "", ElementTypeError{"bson.Document.GetString", v.Type()}
	}
	return s, nil
}

// GetArray returns the array stored under key.
func (d *Document) GetArray(key string) (*Array, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return nil, ErrElementNotFound
	}
	a, ok := v.ArrayOK()
	if !ok {
		return nil, ElementTypeError{"bson.Document.GetArray", v.Type()}
	}
	return a, nil
}

// GetDocument returns the subdocument stored under key.
func (d *Document) GetDocument(key string) (*Document, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return nil, ErrElementNotFound
	}
	sd, ok := v.DocumentOK()
	if !ok {
		return nil, ElementTypeError{"bson.Document.GetDocument", v.Type()}
	}
	return sd, nil
}

// GetBool returns the boolean stored under key.
func (d *Document) GetBool(key string) (bool, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return false, ErrElementNotFound
	}
	b, ok := v.BooleanOK()
	if !ok {
		return false, ElementTypeError{"bson.Document.GetBool", v.Type()}
	}
	return b, nil
}

// GetInt32 returns the int32 stored under key.
func (d *Document) GetInt32(key string) (int32, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return 0, ErrElementNotFound
	}
	i, ok := v.Int32OK()
	if !ok {
		return 0, ElementTypeError{"bson.Document.GetInt32", v.Type()}
	}
	return i, nil
}

// GetInt64 returns the int64 stored under key.
func (d *Document) GetInt64(key string) (int64, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return 0, ErrElementNotFound
	}
	i, ok := v.Int64OK()
	if !ok {
		return 0, ElementTypeError{"bson.Document.GetInt64", v.Type()}
	}
	return i, nil
}

// GetBinary returns the bytes of the generic-subtype binary stored under key.
// A binary value with any other subtype is an ElementTypeError.
func (d *Document) GetBinary(key string) ([]byte, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return nil, ErrElementNotFound
	}
	bin, ok := v.BinaryOK()
	if !ok || bin.Subtype != TypeBinaryGeneric {
		return nil, ElementTypeError{"bson.Document.GetBinary", v.Type()}
	}
	return bin.Data, nil
}

// GetObjectID returns the objectid stored under key.
func (d *Document) GetObjectID(key string) (objectid.ObjectID, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return objectid.ObjectID{}, ErrElementNotFound
	}
	oid, ok := v.ObjectIDOK()
	if !ok {
		return objectid.ObjectID{}, ElementTypeError{"bson.Document.GetObjectID", v.Type()}
	}
	return oid, nil
}

// GetTime returns the datetime stored under key.
func (d *Document) GetTime(key string) (time.Time, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return time.Time{}, ErrElementNotFound
	}
	t, ok := v.TimeOK()
	if !ok {
		return time.Time{}, ElementTypeError{"bson.Document.GetTime", v.Type()}
	}
	return t, nil
}

// GetTimestamp returns the timestamp stored under key.
func (d *Document) GetTimestamp(key string) (Timestamp, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return Timestamp{}, ErrElementNotFound
	}
	ts, ok := v.TimestampOK()
	if !ok {
		return Timestamp{}, ElementTypeError{"bson.Document.GetTimestamp", v.Type()}
	}
	return ts, nil
}

// GetRegex returns the regex stored under key.
func (d *Document) GetRegex(key string) (Regex, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return Regex{}, ErrElementNotFound
	}
	r, ok := v.RegexOK()
	if !ok {
		return Regex{}, ElementTypeError{"bson.Document.GetRegex", v.Type()}
	}
	return r, nil
}

// GetSymbol returns the symbol stored under key.
func (d *Document) GetSymbol(key string) (string, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return "", ErrElementNotFound
	}
	s, ok := v.SymbolOK()
	if !ok {
		return "", ElementTypeError{"bson.Document.GetSymbol", v.Type()}
	}
	return s, nil
}

// IsNull returns true if the value stored under key is the BSON null.
func (d *Document) IsNull(key string) bool {
	v, ok := d.Lookup(key)
	return ok && v.IsNull()
}

// Iterator facilitates iterating over a bson.Document.
type Iterator struct {
	d     *Document
	index int
	elem  *Element
}

// Next fetches the next element of the document, returning whether or not the
// next element was able to be fetched. If true is returned, call Element to
// get the element.
func (itr *Iterator) Next() bool {
	if itr.index >= len(itr.d.elems) {
		return false
	}
	itr.elem = &itr.d.elems[itr.index]
	itr.index++
	return true
}

// Element returns the current element of the Iterator. The pointer is valid
// until the next mutation of the underlying document.
func (itr *Iterator) Element() *Element {
	return itr.elem
}
