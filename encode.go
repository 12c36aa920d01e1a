// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidKey indicates that a document key contains a null byte and
// therefore cannot be written as a cstring.
var ErrInvalidKey = errors.New("invalid document key")

// MarshalBSON implements the Marshaler interface, serializing the document
// to its binary wire representation.
func (d *Document) MarshalBSON() ([]byte, error) {
	return appendDocument(make([]byte, 0, 64), d)
}

// WriteTo implements the io.WriterTo interface, serializing the document and
// writing it to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	b, err := d.MarshalBSON()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	if err != nil {
		return int64(n), errors.Wrap(err, "bson: unable to write document")
	}
	return int64(n), nil
}

// appendDocument serializes d onto dst. The total length of the document is
// only known once the body has been written, so four placeholder bytes are
// reserved up front and patched in place afterwards.
func appendDocument(dst []byte, d *Document) ([]byte, error) {
	if d == nil {
		return nil, ErrNilDocument
	}

	start := len(dst)
	dst = append(dst, 0, 0, 0, 0)

	var err error
	for i := range d.elems {
		dst, err = appendElement(dst, d.elems[i].Key, d.elems[i].Value)
		if err != nil {
			return nil, err
		}
	}

	dst = append(dst, 0)
	binary.LittleEndian.PutUint32(dst[start:start+4], uint32(len(dst)-start))
	return dst, nil
}

// appendArray serializes a onto dst the same way appendDocument does,
// synthesizing each key from the value's zero-based position.
func appendArray(dst []byte, a *Array) ([]byte, error) {
	start := len(dst)
	dst = append(dst, 0, 0, 0, 0)

	var err error
	for i, v := range a.Values() {
		dst, err = appendElement(dst, strconv.Itoa(i), v)
		if err != nil {
			return nil, err
		}
	}

	dst = append(dst, 0)
	binary.LittleEndian.PutUint32(dst[start:start+4], uint32(len(dst)-start))
	return dst, nil
}

// appendElement serializes one element as [type tag][cstring key][payload].
func appendElement(dst []byte, key string, v Value) ([]byte, error) {
	if strings.IndexByte(key, 0) != -1 {
		return nil, ErrInvalidKey
	}

	dst = append(dst, byte(v.Type()))
	dst = appendCString(dst, key)

	var err error
	switch v.Type() {
	case TypeDouble:
		dst = appendU64(dst, math.Float64bits(v.Double()))
	case TypeString:
		dst = appendString(dst, v.StringValue())
	case TypeEmbeddedDocument:
		dst, err = appendDocument(dst, v.Document())
	case TypeArray:
		dst, err = appendArray(dst, v.Array())
	case TypeBinary:
		bin := v.Binary()
		dst = appendI32(dst, int32(len(bin.Data)))
		dst = append(dst, bin.Subtype)
		dst = append(dst, bin.Data...)
	case TypeObjectID:
		oid := v.ObjectID()
		dst = append(dst, oid[:]...)
	case TypeBoolean:
		if v.Boolean() {
			dst = append(dst, 0x01)
		} else {
			dst = append(dst, 0x00)
		}
	case TypeDateTime:
		dst = appendI64(dst, v.DateTime())
	case TypeNull:
	case TypeRegex:
		r := v.Regex()
		dst = appendCString(dst, r.Pattern)
		dst = appendCString(dst, r.Options)
	case TypeJavaScript:
		dst = appendString(dst, v.JavaScript())
	case TypeSymbol:
		dst = appendString(dst, v.Symbol())
	case TypeCodeWithScope:
		code, scope := v.JavaScriptWithScope()
		// The leading length covers itself, the code string, and the scope
		// document, so it gets the same reserve-and-patch treatment.
		start := len(dst)
		dst = append(dst, 0, 0, 0, 0)
		dst = appendString(dst, code)
		dst, err = appendDocument(dst, scope)
		if err == nil {
			binary.LittleEndian.PutUint32(dst[start:start+4], uint32(len(dst)-start))
		}
	case TypeInt32:
		dst = appendI32(dst, v.Int32())
	case TypeTimestamp:
		ts := v.Timestamp()
		dst = appendU64(dst, uint64(ts.T)<<32|uint64(ts.I))
	case TypeInt64:
		dst = appendI64(dst, v.Int64())
	default:
		return nil, UnrecognizedTypeError{Tag: byte(v.Type())}
	}
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// appendString writes the string payload form: int32 (byteLen+1), the UTF-8
// bytes, and a trailing null.
func appendString(dst []byte, s string) []byte {
	dst = appendI32(dst, int32(len(s))+1)
	dst = append(dst, s...)
	return append(dst, 0)
}

// appendCString writes the UTF-8 bytes of s followed by a null terminator.
func appendCString(dst []byte, s string) []byte {
	dst = append(dst, s...)
	return append(dst, 0)
}

func appendI32(dst []byte, i32 int32) []byte {
	return append(dst, byte(i32), byte(i32>>8), byte(i32>>16), byte(i32>>24))
}

func appendI64(dst []byte, i64 int64) []byte {
	return appendU64(dst, uint64(i64))
}

func appendU64(dst []byte, u64 uint64) []byte {
	return append(dst, byte(u64), byte(u64>>8), byte(u64>>16), byte(u64>>24),
		byte(u64>>32), byte(u64>>40), byte(u64>>48), byte(u64>>56))
}
