// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding/hex"
	"fmt"

	"github.com/danclive/bsonrs/objectid"
)

// ExtendedDocument converts a Value with no native representation in a
// generic tree notation into its extended-document stand-in:
//
//	regex           {"$regex": <pattern>, "$options": <options>}
//	code with scope {"$code": <code>, "$scope": <scope>}
//	code            {"$code": <code>}
//	timestamp       {"t": <high>, "i": <low>}
//	binary          {"$binary": <lowercase hex>, "type": <subtype>}
//	objectid        {"$oid": <lowercase hex>}
//	datetime        {"$date": {"$numberLong": <ms since epoch>}}
//	symbol          {"$symbol": <symbol>}
//
// Calling ExtendedDocument on a value that a generic tree can represent
// natively (double, string, array, document, boolean, null, int32, int64) is
// a programming error and panics.
func (v Value) ExtendedDocument() *Document {
	switch v.Type() {
	case TypeRegex:
		r := v.Regex()
		return NewDocument(
			EC.String("$regex", r.Pattern),
			EC.String("$options", r.Options),
		)
	case TypeJavaScript:
		return NewDocument(EC.String("$code", v.JavaScript()))
	case TypeCodeWithScope:
		code, scope := v.JavaScriptWithScope()
		return NewDocument(
			EC.String("$code", code),
			EC.SubDocument("$scope", scope),
		)
	case TypeTimestamp:
		ts := v.Timestamp()
		return NewDocument(
			EC.Int64("t", int64(ts.T)),
			EC.Int64("i", int64(ts.I)),
		)
	case TypeBinary:
		bin := v.Binary()
		return NewDocument(
			EC.String("$binary", hex.EncodeToString(bin.Data)),
			EC.Int64("type", int64(bin.Subtype)),
		)
	case TypeObjectID:
		return NewDocument(EC.String("$oid", v.ObjectID().Hex()))
	case TypeDateTime:
		return NewDocument(EC.SubDocument("$date",
			NewDocument(EC.Int64("$numberLong", v.DateTime())),
		))
	case TypeSymbol:
		return NewDocument(EC.String("$symbol", v.Symbol()))
	default:
		panic(fmt.Sprintf("bson: no extended document representation for %s value %s", v.Type(), v))
	}
}

// FromExtendedDocument matches d against the extended-document shapes listed
// on ExtendedDocument and returns the Value the shape stands in for. A
// document matching no shape is returned unchanged as an embedded document
// Value.
func FromExtendedDocument(d *Document) Value {
	switch d.Len() {
	case 2:
		if pattern, err := d.GetString("$regex"); err == nil {
			if options, err := d.GetString("$options"); err == nil {
				return VC.Regex(pattern, options)
			}
		}
		if code, err := d.GetString("$code"); err == nil {
			if scope, err := d.GetDocument("$scope"); err == nil {
				return VC.CodeWithScope(code, scope)
			}
		}
		if t, ok := intLike(d, "t"); ok {
			if i, ok := intLike(d, "i"); ok {
				return VC.Timestamp(uint32(t), uint32(i))
			}
		}
		if encoded, err := d.GetString("$binary"); err == nil {
			if subtype, ok := intLike(d, "type"); ok {
				data, err := hex.DecodeString(encoded)
				if err == nil {
					return VC.BinaryWithSubtype(byte(subtype), data)
				}
			}
		}
	case 1:
		if code, err := d.GetString("$code"); err == nil {
			return VC.JavaScript(code)
		}
		if encoded, err := d.GetString("$oid"); err == nil {
			oid, err := objectid.FromHex(encoded)
			if err == nil {
				return VC.ObjectID(oid)
			}
		}
		if date, err := d.GetDocument("$date"); err == nil {
			if ms, err := date.GetInt64("$numberLong"); err == nil {
				return VC.DateTime(timeFromMillis(ms))
			}
		}
		if symbol, err := d.GetString("$symbol"); err == nil {
			return VC.Symbol(symbol)
		}
	}

	return VC.Document(d)
}

// intLike reads an int32 or int64 stored under key, the two integer widths an
// extended-document producer may have used.
func intLike(d *Document, key string) (int64, bool) {
	v, ok := d.Lookup(key)
	if !ok {
		return 0, false
	}
	if i, ok := v.Int32OK(); ok {
		return int64(i), true
	}
	if i, ok := v.Int64OK(); ok {
		return i, true
	}
	return 0, false
}
