// Package sanitize implements the image sanitization pipeline:
// decode, normalize color mode, bound dimensions, strip metadata,
// re-encode, and optionally verify that no metadata survived.
//
// The pipeline is synchronous and single-operation: one image at a time
// on the calling goroutine. Concurrent calls on independent inputs are
// safe because no state is shared between invocations; each call owns
// its Buffer exclusively as it moves stage to stage.
//
// The package also provides the output anonymizer, which persists
// sanitized bytes under a randomized filename with fixed timestamps and
// permission bits, and a scoped temp-file wrapper that guarantees
// deletion of the sanitized file when the caller's function returns.
package sanitize
