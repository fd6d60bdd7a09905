// Package io reads and writes family records in JSON or YAML.
//
// # Overview
//
// A records file is the persistence boundary of a family tree: one record per
// person with its relationship ids, including soft-deleted persons, in
// creation order. Loading a file into a [family.Store] and writing
// [family.Store.Records] back reproduces it.
//
// # Format
//
//	{
//	  "version": 1,
//	  "persons": [
//	    {"id": "p1", "name": "Tom", "gender": "male", "spouse": "p2", "children": ["p3"]},
//	    {"id": "p2", "name": "Ann", "gender": "female", "spouse": "p1", "children": ["p3"]},
//	    {"id": "p3", "name": "Joe", "gender": "male", "birth_date": "1990-04-01",
//	     "parents": ["p1", "p2"]}
//	  ]
//	}
//
// The YAML form uses the same keys. Fields:
//
//   - id, name, gender: required
//   - localized_name: optional secondary display name
//   - birth_date: optional, YYYY-MM-DD
//   - active: defaults to true when omitted
//   - parents, spouse, children: person ids; both ends must agree
//
// Unknown keys are rejected so typos do not silently drop data. The codec
// checks syntax and field formats only; relationship invariants are checked
// when the records are loaded into a store.
//
// # Format Selection
//
// [FormatFromPath] picks the codec from the file extension (.json, .yaml,
// .yml). [Import] and [Export] use it; [Read] and [Write] take the format
// explicitly for streams.
package io
