// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db keeps a cached index of the host source directory so that host
// selection and tab completion do not need to parse every host file.
//
// The index lives behind the small `Store` interface. The production
// implementation is Bun based and works with SQLite (default, pure Go via
// modernc.org/sqlite), PostgreSQL (pgx) and MySQL. Tables are created on open.
//
// Testing notes
//   - Use `WithTestStore` to get an in-memory SQLite store scoped to a test.
package db
