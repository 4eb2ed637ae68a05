// Package journal persists pipeline runs and their per-stream encode
// results in a SQLite database, so past runs can be listed and inspected
// after the fact.
package journal
