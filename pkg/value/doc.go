// Package value models the data found in request sources as a closed set of
// variants: null, bool, string, int, float, list, map, plus two markers.
// Invalid is produced when a number fails revalidation and Other carries a
// host value of any unrecognised Go type.
//
// Values are built with the constructors (String, Int, List, FromMap, …) or
// converted from plain Go data with Of. Nested data is addressed with
// Map.Lookup, which walks maps by key and lists by decimal index:
//
//	src := value.Map{"bork": value.FromMap(value.Map{"word": value.String("moo")})}
//	v, ok := src.Lookup("bork", "word") // "moo", true
//
// Values encode to JSON and decode from JSON and YAML, so snapshots of request
// data can be stored in fixtures.
package value
