// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"reflect"
	"strings"
)

// structTag holds the parsed "bson" tag of one struct field. The tag format
// is "[<key>][,<flag1>[,<flag2>]]". Supported flags are omitempty, which
// drops the field from marshaled output when it holds its type's empty value,
// and required, which makes Unmarshal fail with a MissingFieldError when the
// document has no element for the field.
type structTag struct {
	Name      string
	OmitEmpty bool
	Required  bool
	Skip      bool
}

// parseStructTag parses the field's bson tag. A field with no tag (or no key
// in the tag) uses its lowercased Go name, the convention inherited from mgo.
func parseStructTag(sf reflect.StructField) structTag {
	st := structTag{Name: strings.ToLower(sf.Name)}

	tag, ok := sf.Tag.Lookup("bson")
	if !ok {
		return st
	}
	if tag == "-" {
		st.Skip = true
		return st
	}

	for i, part := range strings.Split(tag, ",") {
		if i == 0 {
			if part != "" {
				st.Name = part
			}
			continue
		}
		switch part {
		case "omitempty":
			st.OmitEmpty = true
		case "required":
			st.Required = true
		}
	}
	return st
}

// isEmptyValue reports whether v holds the value omitempty treats as empty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
