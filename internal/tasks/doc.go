// Package tasks runs long catalog operations with real-time progress reporting.
//
// # Export
//
// [ExportEngine.Export] snapshots catalog collections to disk:
//
//  1. A producer fetches each requested [services.Resource] from the catalog, throttled by a rate limiter
//  2. A pool of workers renders each collection with the formatter package and writes it as <resource>.<ext>
//  3. A manifest (export_manifest.json) summarizing every file and failure is written last
//
// A failed fetch or write is recorded in the result and does not stop the remaining resources.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Sends use select with default,
// so a slow or absent reader never blocks the operation.
package tasks
