// Package mock provides deterministic test doubles for the ai interfaces.
//
// The mock embedder hashes input text into stable unit-length vectors; the
// mock intent parser splits on " then ". Both support behavior injection via
// function fields and call counting for assertions.
package mock
