// Package lufile is the structured-editing layer over LU documents.
//
// A Document is always the product of one parse of its Content: Intents and
// Diagnostics are derived, never edited in place. Every edit (UpdateIntent,
// AddIntent, RemoveIntent, ReplaceIntent) parses the input, patches the text
// of exactly one top-level section, and returns a new Document built from a
// fresh parse of the patched text.
//
// Nested intents are addressed by composite names of the form
// "Parent/Child". Only one level of nesting is supported; deeper names are
// rejected with ErrUnsupportedName.
package lufile
