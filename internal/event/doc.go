// Package event defines the closed set of inbound event kinds, the wire
// decoding for each, the Dispatcher that fans a decoded event out to
// registered handlers, and the growable intake Queue that serialises event
// application.
//
// The wire envelope is {"type": "<kind>", "data": {...}}. Unknown kinds decode
// to ErrUnknownKind and are skipped by callers; a malformed payload drops that
// single event without disturbing applied state.
package event
