// Package services defines the [MetadataService] interface for film metadata providers and implements it for OMDb.
//
// # OMDb Implementation
//
// [OMDbService] issues one GET per lookup with the t (title) and apikey query parameters. Requests are bounded by a
// fixed timeout (10 seconds unless configured) and may be throttled by an optional client-side rate limiter. The
// service never retries.
//
// # Error Handling
//
// Lookups fail with a [*LookupError] whose Kind is one of the sentinels from the shared package:
//   - [shared.ErrNetwork] : transport failure, non-2xx status or unreadable body
//   - [shared.ErrMovieNotFound] : OMDb answered Response "False"; Message carries OMDb's Error text
//   - [shared.ErrIncompleteData] : a match was returned without a usable title or year
//
// A missing API key is reported as [shared.ErrMissingCredentials] before any request is made.
//
// # API Mappings
//
// [Normalize] converts [OMDbResponse] to models.Record:
//   - Year: first four characters parsed as an integer ("1999–2001" → 1999)
//   - imdbRating: float, "N/A" → 0.0
//   - Poster and imdbID: nil when absent or "N/A"
package services
