// Package repositories implements SQLite persistence for the movie catalog.
//
// Key Implementations:
//   - [UserRepository] : get-or-create users keyed by unique name
//   - [MovieRepository] : per-user movie rows under a (user_id, title) unique constraint
//   - [CatalogRepository] : the entry points used by presentation code; enriches new titles through a
//     services.MetadataService before inserting them
//
// Mutations are single auto-committed statements. Metadata lookups happen outside any transaction, so duplicate
// titles are detected from the unique constraint after the fact and reported as [StatusDuplicate] rather than as
// an error. Deletes and updates that match no row report false instead of failing.
package repositories
