// Package binapi contains binary API message definitions.
//
// Each subpackage corresponds to one API file of the engine.
// Messages implement go.fd.io/govpp/api.Message, so that they can be encoded by apiwire and
// used with GoVPP tooling.
//
// Message payloads are big-endian.
// Fixed-length strings occupy their declared length, padded with NUL.
// Variable-length strings and arrays are prefixed by a u32 length, unless a preceding field
// carries the count.
package binapi
