// Package span provides line/column positions and half-open ranges over
// document text, with columns measured in UTF-16 code units.
//
// UTF-16 columns match what LSP clients report, so positions received from
// the host editor can be used directly without re-encoding. The package
// also provides the UTF-16 aware helpers needed to slice a region out of a
// full document and to measure replacement text:
//
//   - [Point]: 0-indexed line and column, column in UTF-16 code units
//   - [Range]: half-open span [Start, End) over a document
//   - [UTF16Len]: length of a string in UTF-16 code units
//   - [Slice]: extract the text covered by a Range from a document
//
// All types are plain values; none of the operations can fail except
// Slice, which reports whether the range was resolvable in the given
// text.
package span
