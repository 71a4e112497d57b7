// Package catalog owns the shared mutable state of the service: users,
// songs, playlists and engagement counters.
//
// A single [Store] instance is created at process start and handed to the
// dispatcher; there are no package-level singletons. One store-wide RWMutex
// serializes every mutation, so read-modify-write sequences such as "does
// the playlist already contain this song, then append" can never interleave.
// Read operations return copies and never expose interior pointers.
package catalog
