// Package modelconfig implements versioned model configuration for the
// chat proxy.
//
// A configuration version is an immutable record of completion parameters
// (model, temperature, max_tokens, system prompt). Versions are created
// inert and become effective only when published; publishing atomically
// activates one version and deactivates every other, so at most one version
// is active at any observable instant.
//
// The package is split into a Store interface (persistence and the
// activation transaction, implemented in the storage subpackage) and a
// Service (version numbering policy, the default fallback, and the
// publish confirmation shape consumed by the HTTP layer).
package modelconfig
