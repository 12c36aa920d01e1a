// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-stack/stack"
	"github.com/pkg/errors"

	"github.com/danclive/bsonrs/objectid"
)

// MaxStringLength is the largest string payload the decoder accepts, in
// bytes. A string element whose declared length falls outside [1,
// MaxStringLength] fails with an InvalidLengthError before any allocation of
// the claimed size happens.
const MaxStringLength = 16 * 1024 * 1024

// ErrInvalidUTF8 indicates that a document key is not valid UTF-8. Keys are
// validated strictly; string element content, by contrast, is repaired
// lossily to tolerate legacy producers.
var ErrInvalidUTF8 = errors.New("document key is not valid UTF-8")

// UnrecognizedTypeError indicates that an element carries a type tag the
// decoder does not support. The reserved undefined, dbPointer, maxKey, and
// minKey tags are valid on the wire but have no Value representation and
// decode with this error as well.
type UnrecognizedTypeError struct {
	Tag byte
}

// Error implements the error interface.
func (e UnrecognizedTypeError) Error() string {
	return fmt.Sprintf("unrecognized element type 0x%02x", e.Tag)
}

// InvalidArrayKeyError indicates that an array element's key does not equal
// the element's zero-based position.
type InvalidArrayKeyError struct {
	Expected int
	Key      string
}

// Error implements the error interface.
func (e InvalidArrayKeyError) Error() string {
	return fmt.Sprintf("invalid array key: expected %q, got %q", strconv.Itoa(e.Expected), e.Key)
}

// InvalidLengthError indicates that a declared string or binary length is
// negative, zero, or larger than the decoder is willing to allocate.
type InvalidLengthError struct {
	Length int32
}

// Error implements the error interface.
func (e InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid declared length %d (max %d)", e.Length, MaxStringLength)
}

// InsufficientBytesError indicates that the byte stream ended before a
// complete document was read.
type InsufficientBytesError struct {
	Source error
	Stack  stack.CallStack
}

func newInsufficientBytesError(src error) InsufficientBytesError {
	return InsufficientBytesError{Source: src, Stack: stack.Trace().TrimRuntime()}
}

// Error implements the error interface.
func (e InsufficientBytesError) Error() string {
	return "too few bytes available to read a complete document"
}

// Unwrap returns the underlying read error.
func (e InsufficientBytesError) Unwrap() error { return e.Source }

// ErrorStack returns a string representing the stack at the point where the
// error occurred.
func (e InsufficientBytesError) ErrorStack() string {
	s := bytes.NewBufferString(e.Error() + ": [")

	for i, call := range e.Stack {
		if i != 0 {
			s.WriteString(", ")
		}

		// go vet doesn't like %k even though it's part of stack's API, so we
		// move the format string so it doesn't complain.
		callFormat := "%k.%n %v"

		s.WriteString(fmt.Sprintf(callFormat, call, call, call))
	}

	s.WriteRune(']')

	return s.String()
}

// ReadDocument will create a Document from the provided slice of bytes. If
// the slice of bytes is not a valid BSON document, this method will return an
// error. Bytes past the end of the document are ignored.
func ReadDocument(b []byte) (*Document, error) {
	return DecodeDocument(bytes.NewReader(b))
}

// UnmarshalBSON implements the Unmarshaler interface.
func (d *Document) UnmarshalBSON(b []byte) error {
	doc, err := ReadDocument(b)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// DecodeDocument reads one BSON document from r. Decoding is all-or-nothing:
// on any error no partial document is returned.
//
// The document's leading length is read and discarded; parsing proceeds
// element by element until the terminating null, so a corrupt length cannot
// force a matching allocation.
func DecodeDocument(r io.Reader) (*Document, error) {
	if _, err := readI32(r); err != nil {
		return nil, err
	}

	doc := NewDocument()
	for {
		tag, err := readByte(r)
		if err != nil {
			return nil, err
		}
		if tag == 0 {
			break
		}

		key, err := readCString(r)
		if err != nil {
			return nil, err
		}

		val, err := decodeValue(r, Type(tag))
		if err != nil {
			return nil, err
		}

		doc.Set(key, val)
	}

	return doc, nil
}

func decodeArray(r io.Reader) (*Array, error) {
	if _, err := readI32(r); err != nil {
		return nil, err
	}

	arr := NewArray()
	for {
		tag, err := readByte(r)
		if err != nil {
			return nil, err
		}
		if tag == 0 {
			break
		}

		key, err := readCString(r)
		if err != nil {
			return nil, err
		}
		idx, err := strconv.ParseUint(key, 10, 64)
		if err != nil || int(idx) != arr.Len() {
			return nil, InvalidArrayKeyError{Expected: arr.Len(), Key: key}
		}

		val, err := decodeValue(r, Type(tag))
		if err != nil {
			return nil, err
		}

		arr.Append(val)
	}

	return arr, nil
}

func decodeValue(r io.Reader, tag Type) (Value, error) {
	switch tag {
	case TypeDouble:
		u, err := readU64(r)
		if err != nil {
			return Value{}, err
		}
		return VC.Double(math.Float64frombits(u)), nil
	case TypeString:
		s, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return VC.String(s), nil
	case TypeEmbeddedDocument:
		doc, err := DecodeDocument(r)
		if err != nil {
			return Value{}, err
		}
		return VC.Document(doc), nil
	case TypeArray:
		arr, err := decodeArray(r)
		if err != nil {
			return Value{}, err
		}
		return VC.Array(arr), nil
	case TypeBinary:
		l, err := readI32(r)
		if err != nil {
			return Value{}, err
		}
		if l < 0 || l > MaxStringLength {
			return Value{}, InvalidLengthError{Length: l}
		}
		subtype, err := readByte(r)
		if err != nil {
			return Value{}, err
		}
		data := make([]byte, l)
		if err := readFull(r, data); err != nil {
			return Value{}, err
		}
		return VC.BinaryWithSubtype(subtype, data), nil
	case TypeObjectID:
		var oid objectid.ObjectID
		if err := readFull(r, oid[:]); err != nil {
			return Value{}, err
		}
		return VC.ObjectID(oid), nil
	case TypeBoolean:
		b, err := readByte(r)
		if err != nil {
			return Value{}, err
		}
		return VC.Boolean(b != 0), nil
	case TypeDateTime:
		ms, err := readI64(r)
		if err != nil {
			return Value{}, err
		}
		return VC.DateTime(timeFromMillis(ms)), nil
	case TypeNull:
		return VC.Null(), nil
	case TypeRegex:
		pattern, err := readCString(r)
		if err != nil {
			return Value{}, err
		}
		options, err := readCString(r)
		if err != nil {
			return Value{}, err
		}
		return VC.Regex(pattern, options), nil
	case TypeJavaScript:
		code, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return VC.JavaScript(code), nil
	case TypeSymbol:
		s, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return VC.Symbol(s), nil
	case TypeCodeWithScope:
		// The leading length is discarded the same way a document's is.
		if _, err := readI32(r); err != nil {
			return Value{}, err
		}
		code, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		scope, err := DecodeDocument(r)
		if err != nil {
			return Value{}, err
		}
		return VC.CodeWithScope(code, scope), nil
	case TypeInt32:
		i, err := readI32(r)
		if err != nil {
			return Value{}, err
		}
		return VC.Int32(i), nil
	case TypeTimestamp:
		u, err := readU64(r)
		if err != nil {
			return Value{}, err
		}
		return VC.Timestamp(uint32(u>>32), uint32(u)), nil
	case TypeInt64:
		i, err := readI64(r)
		if err != nil {
			return Value{}, err
		}
		return VC.Int64(i), nil
	default:
		return Value{}, UnrecognizedTypeError{Tag: byte(tag)}
	}
}

// timeFromMillis converts milliseconds since the Unix epoch into a time.Time,
// normalizing a negative remainder forward into the prior second so the
// nanosecond component is never negative.
func timeFromMillis(ms int64) time.Time {
	sec, rem := ms/1000, ms%1000
	if rem < 0 {
		rem += 1000
		sec--
	}
	return time.Unix(sec, rem*1e6).UTC()
}

// readString reads the string payload form: a length covering the content and
// its trailing null, the content bytes, and the null. Content that is not
// valid UTF-8 is repaired lossily rather than rejected.
func readString(r io.Reader) (string, error) {
	l, err := readI32(r)
	if err != nil {
		return "", err
	}
	if l <= 0 || l > MaxStringLength {
		return "", InvalidLengthError{Length: l}
	}

	buf := make([]byte, l)
	if err := readFull(r, buf); err != nil {
		return "", err
	}

	s := string(buf[:l-1])
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	return s, nil
}

// readCString reads bytes up to a null terminator and validates them strictly
// as UTF-8.
func readCString(r io.Reader) (string, error) {
	var buf []byte
	for {
		c, err := readByte(r)
		if err != nil {
			return "", err
		}
		if c == 0 {
			break
		}
		buf = append(buf, c)
	}

	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readI32(r io.Reader) (int32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

func readI64(r io.Reader) (int64, error) {
	u, err := readU64(r)
	return int64(u), err
}

func readU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// readFull fills buf from r, mapping a short read onto
// InsufficientBytesError and wrapping any other failure with context.
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return newInsufficientBytesError(err)
	case err != nil:
		return errors.Wrap(err, "bson: unable to read document")
	}
	return nil
}
