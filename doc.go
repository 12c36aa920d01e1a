// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bson implements encoding and decoding of BSON documents.
//
// The wire format is handled through the Document type, an ordered set of
// key/value pairs with constant-time lookup by key. Documents are built from
// the EC (element constructor) and VC (value constructor) namespaces:
//
//	doc := bson.NewDocument(
//		bson.EC.String("hello", "world"),
//		bson.EC.Int32("count", 3),
//	)
//	data, err := doc.MarshalBSON()
//
// DecodeDocument and ReadDocument perform the reverse transformation, and
// Marshal and Unmarshal convert between BSON documents and native Go values
// through reflection, honoring "bson" struct tags.
//
// Values with no counterpart in plain JSON (regexes, timestamps, binary
// blobs, object ids) convert to and from extended-document stand-in shapes
// via ExtendedDocument and FromExtendedDocument, which is also how the JSON
// marshaling on Value, Document, and Array represents them.
package bson
