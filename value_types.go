// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import "bytes"

// Binary represents a BSON binary value.
type Binary struct {
	Subtype byte
	Data    []byte
}

// Equal compares bin to bin2 and returns true if they are equal.
func (bin Binary) Equal(bin2 Binary) bool {
	return bin.Subtype == bin2.Subtype && bytes.Equal(bin.Data, bin2.Data)
}

// Regex represents a BSON regex value.
type Regex struct {
	Pattern string
	Options string
}

// JavaScriptCode represents a BSON JavaScript code value.
type JavaScriptCode string

// Symbol represents a BSON symbol value.
type Symbol string

// CodeWithScope represents a BSON JavaScript code with scope value.
type CodeWithScope struct {
	Code  string
	Scope *Document
}

// Equal compares cws to cws2 and returns true if they are equal.
func (cws CodeWithScope) Equal(cws2 CodeWithScope) bool {
	return cws.Code == cws2.Code && cws.Scope.Equal(cws2.Scope)
}

// Timestamp represents a BSON timestamp value. T holds the high-order half of
// the 64-bit wire quantity and I the low-order half.
type Timestamp struct {
	T uint32
	I uint32
}
