// Package models defines the domain entities of the movie catalog.
//
// The package contains three categories of types:
//
// 1. Persistent Entities: rows of the catalog database
//   - [User] : Catalog owner identified by a unique name
//   - [Movie] : A title in one user's catalog with year, rating, poster and IMDb id
//
// 2. Data Transfer Objects: values exchanged with the metadata service
//   - [Record] : Normalized, validated metadata for a single title
//
// 3. Call context
//   - [Session] : The active user every catalog operation is scoped to
//   - [Catalog] : A user's movies ordered by title
package models
