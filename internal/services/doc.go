// Package services defines shared error classification utilities consumed by
// the probe, encode, and remux components.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failures from
//     external tools, validation, and configuration distinguishable.
//   - The Fatal predicate that implements the pipeline's abort-vs-soft-fail
//     taxonomy.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
