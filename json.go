// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// MarshalJSON implements the json.Marshaler interface. Value variants with no
// native JSON counterpart are rendered through their extended-document
// shapes, so the output round-trips through UnmarshalJSON.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements the json.Marshaler interface, preserving element
// order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONDocument(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements the json.Marshaler interface.
func (a *Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONArray(&buf, a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v Value) error {
	switch v.Type() {
	case TypeDouble:
		return writeJSONDouble(buf, v.Double())
	case TypeString:
		return writeJSONString(buf, v.StringValue())
	case TypeEmbeddedDocument:
		return writeJSONDocument(buf, v.Document())
	case TypeArray:
		return writeJSONArray(buf, v.Array())
	case TypeBoolean:
		buf.WriteString(strconv.FormatBool(v.Boolean()))
	case TypeNull:
		buf.WriteString("null")
	case TypeInt32:
		buf.WriteString(strconv.FormatInt(int64(v.Int32()), 10))
	case TypeInt64:
		buf.WriteString(strconv.FormatInt(v.Int64(), 10))
	default:
		return writeJSONDocument(buf, v.ExtendedDocument())
	}
	return nil
}

func writeJSONDocument(buf *bytes.Buffer, d *Document) error {
	if d == nil {
		return ErrNilDocument
	}
	buf.WriteByte('{')
	for i := range d.elems {
		if i != 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(buf, d.elems[i].Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(buf, d.elems[i].Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONArray(buf *bytes.Buffer, a *Array) error {
	buf.WriteByte('[')
	for i, v := range a.Values() {
		if i != 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeJSONDouble renders f so it reads back as a double. An integral value
// formatted bare ("1") would be indistinguishable from an int64, so a ".0" is
// appended when the rendering carries no float marker.
func writeJSONDouble(buf *bytes.Buffer, f float64) error {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return errors.Errorf("bson: unable to render double %v as JSON", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	buf.WriteString(s)
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "bson: unable to render string as JSON")
	}
	buf.Write(b)
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface. Objects are
// shape-matched through FromExtendedDocument, integral numbers become int64
// values, and all other numbers become doubles.
func (v *Value) UnmarshalJSON(data []byte) error {
	raw, vt, _, err := jsonparser.Get(data)
	if err != nil {
		return errors.Wrap(err, "bson: unable to parse JSON")
	}
	val, err := valueFromJSON(raw, vt)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface. The data must hold
// a JSON object.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := documentFromJSON(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

func valueFromJSON(raw []byte, vt jsonparser.ValueType) (Value, error) {
	switch vt {
	case jsonparser.Object:
		doc, err := documentFromJSON(raw)
		if err != nil {
			return Value{}, err
		}
		return FromExtendedDocument(doc), nil
	case jsonparser.Array:
		arr := NewArray()
		var cbErr error
		_, err := jsonparser.ArrayEach(raw, func(item []byte, dataType jsonparser.ValueType, _ int, err error) {
			if cbErr != nil {
				return
			}
			if err != nil {
				cbErr = err
				return
			}
			val, err := valueFromJSON(item, dataType)
			if err != nil {
				cbErr = err
				return
			}
			arr.Append(val)
		})
		if err == nil {
			err = cbErr
		}
		if err != nil {
			return Value{}, errors.Wrap(err, "bson: unable to parse JSON array")
		}
		return VC.Array(arr), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, errors.Wrap(err, "bson: unable to parse JSON string")
		}
		return VC.String(s), nil
	case jsonparser.Number:
		if i, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return VC.Int64(i), nil
		}
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return Value{}, errors.Wrap(err, "bson: unable to parse JSON number")
		}
		return VC.Double(f), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, errors.Wrap(err, "bson: unable to parse JSON boolean")
		}
		return VC.Boolean(b), nil
	case jsonparser.Null:
		return VC.Null(), nil
	default:
		return Value{}, errors.Errorf("bson: unsupported JSON value %q", raw)
	}
}

func documentFromJSON(data []byte) (*Document, error) {
	doc := NewDocument()
	err := jsonparser.ObjectEach(data, func(key, item []byte, dataType jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		val, err := valueFromJSON(item, dataType)
		if err != nil {
			return err
		}
		doc.Set(k, val)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "bson: unable to parse JSON document")
	}
	return doc, nil
}
