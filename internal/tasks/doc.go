// Package tasks runs catalog-wide jobs across every user with real-time progress reporting.
//
// # Bulk Export
//
// [Engine.BulkExport] writes each user's catalog in the requested [formatter.Format], plus the HTML catalog page when
// requested, using a fixed pool of workers. A manifest summarizing every file written is saved alongside the exports.
// A failure for one user is recorded in the result and does not stop the others.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Sends use select with default so a slow or absent
// reader never blocks the job.
package tasks
