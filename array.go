// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import "strings"

// Array represents an ordered BSON array. On the wire an array is a document
// whose keys are the decimal strings "0", "1", "2", ... in ascending order;
// the keys are synthesized from each value's position when encoding and
// validated when decoding.
type Array struct {
	values []Value
}

// NewArray creates an Array from the provided values, in order.
func NewArray(values ...Value) *Array {
	return &Array{values: append(make([]Value, 0, len(values)), values...)}
}

// Len returns the number of values in the array.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.values)
}

// Append adds each value to the end of the array, in order.
func (a *Array) Append(values ...Value) *Array {
	a.values = append(a.values, values...)
	return a
}

// At retrieves the value at the given position.
func (a *Array) At(index uint) (Value, error) {
	if a == nil || int(index) >= len(a.values) {
		return Value{}, ErrOutOfBounds
	}
	return a.values[index], nil
}

// Set replaces the value at the given position.
func (a *Array) Set(index uint, v Value) error {
	if a == nil || int(index) >= len(a.values) {
		return ErrOutOfBounds
	}
	a.values[index] = v
	return nil
}

// Values returns the backing slice of values. Mutating the slice mutates the
// array.
func (a *Array) Values() []Value {
	if a == nil {
		return nil
	}
	return a.values
}

// Equal compares a to a2 and returns true if they hold the same values in the
// same order.
func (a *Array) Equal(a2 *Array) bool {
	if a.Len() != a2.Len() {
		return false
	}
	for i := range a.values {
		if !a.values[i].Equal(a2.values[i]) {
			return false
		}
	}
	return true
}

func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.values {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
