// Package backend hosts the inference engine behind the HTTP front end. It
// is structured into small files by concern:
//
//   - engine.go: core Engine type, constructor, state accessors, model load.
//   - infer.go: canonical-request entry point and snapshot production.
//   - queue.go: admission (queue slots and the single in-flight generation).
//   - errors.go: error types and helpers (IsTooBusy, IsDependencyUnavailable).
//   - adapter.go: runtime adapter interface and generation parameters.
//
// Build tags and runtimes:
//
//   - In-process llama: uses the go-llama.cpp adapter, enabled with
//     `-tags=llama` (adapter_llama.go, llama_cgo.go for linker rpath hints).
//   - Default builds compile a no-CGO stub (adapter_stub.go) that fails
//     fast instead of mocking generation.
//
// The Engine exposes the read-only state the normalizer consults
// (ModelName, ModelDict, ChatAvailable, LastError) plus Infer, which yields
// a bounded channel of cumulative partial-result snapshots. The channel is
// single-consumer, closed on completion, and abandoned cleanly when the
// request context is cancelled.
package backend
