// Package badger implements the storage interfaces on BadgerDB.
//
// A single Backend serves both stores. Place records live under a primary
// key per ID plus a BigEndian insertion-order index, which is what gives
// AllPlaces its stable corpus order. Embeddings live under a separate
// version-tagged prefix and are rewritten wholesale on every Store.
package badger
