// Package filter translates caller-supplied filter expressions into MongoDB
// query documents.
//
// Filters arrive as string keys with string or JSON values, typically from a
// URL query string. A key is a field name with an optional trailing modifier,
// separated by a lookup separator (default "__"). Only the first segment names
// the field, so query document keys never contain dots:
//
//	name=bob                 -> {"name": "bob"}
//	age__ne=5                -> {"age": {"$ne": "5"}}
//	tags__in=a,b&tags__in=c  -> {"tags": {"$in": ["a", "b", "c"]}}
//	address__city=Oslo       -> {"address": "Oslo"}
//	active=true              -> {"active": true}
//	deleted=none             -> {"deleted": null}
//
// Comma splitting for in and nin only applies to sources that keep repeated
// keys, such as Values. A single-valued Map passes the string through.
//
// A value that is a JSON object is treated as a nested modifier expression:
//
//	score={"$size": 3}       -> {"score": {"$size": 3}}
//	x={"tags": {"all": ["a"]}} -> {"tags": {"$all": ["a"]}}
//
// The reserved key "query" is an escape hatch: when it holds a JSON object,
// that object is returned verbatim and every other filter is ignored.
//
// The modifier set is closed: all, exists, mod, ne, in, nin, size and type.
// The logical operators and, or and nor are rejected with
// errors.ErrUnsupportedModifier rather than mistranslated.
//
// When two filters resolve to the same field, the one processed last wins.
// Keys are processed in sorted order, so the outcome is deterministic, but
// conditions are never combined.
package filter
