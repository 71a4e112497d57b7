// Package models defines the domain entities of the media catalog service.
//
// The package contains two categories of types:
//
//  1. Catalog entities owned by the state store: [User], [Song], [Playlist]
//     and the per-song [Engagement] counters.
//  2. Wire documents assembled for clients: [Profile] and [ExploreSong].
//
// Entities are plain structs; all locking and invariant enforcement lives in
// the catalog store, which is the only writer.
package models
