// Package model defines stable boundary types for callers that render or
// transport session state.
//
// Fingerprint identity (canonical bytes and their digest) is unaffected by
// any projection. These structs are the only types intended for direct JSON
// serialization by consumers.
package model
