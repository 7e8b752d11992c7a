// Package cache owns the on-disk layout of the shared artifact cache: the
// root directory with its four fixed stores (hub/ model snapshots, datasets/
// arrow data, assets/, xet/ transfer acceleration), recursive size
// accounting, the stale-artifact scanner (lock files, incomplete transfers,
// misplaced dataset directories), the idempotent cleanup engine, and the
// offline-readiness checker. All operations are read-only except Clean and
// Init; none of them acquire locks — lock files observed here were left
// behind by the external fetch library, and a single writing process per
// root is a documented precondition of the whole system.
package cache
