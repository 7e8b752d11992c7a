// Package naming implements the codec between logical artifact identifiers
// (org/name style) and the directory names the shared hub cache uses on disk.
// The layout mirrors the external hub library's conventions so that artifacts
// downloaded here are directly consumable by that library in offline mode:
// model snapshots live under hub/models--<org>--<name>, dataset arrow data
// under datasets/<org>___<name>. Encoding is a pure character substitution and
// performs no existence or validity checks; higher layers (cache scanner,
// readiness checker, status listing) depend on this package for every
// identifier <-> directory translation.
package naming
