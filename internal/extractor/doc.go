// Package extractor turns natural-language calendar requests into typed
// actions by way of a single model completion per message.
//
// The prompt contract is the load-bearing part: it fixes the JSON schema
// the model must emit, the 24-hour minute-resolution time format, the
// resolution of relative dates against the current timestamp, and the rule
// that a modification carries only the fields the user asked to change.
// Everything the model returns is treated as untrusted input and validated
// field by field before a Request is constructed; a malformed draft in a
// batch is dropped without sinking its siblings.
package extractor
