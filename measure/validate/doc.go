// Package validate checks rendered WAV files against a delivery target.
//
// Validate reads the file back from disk and runs every check in a fixed
// order: sample rate, duration, subtype, channel count, peak level and
// audible-band silence. Failures do not short-circuit; the returned
// *FailureError carries one Reason per failed check so a caller can repair
// everything in one pass. A file that cannot be opened or decoded is
// reported with ErrFileUnreadable instead, never as a conformance failure.
package validate
