// Package token provides the core value types for the SEMDOC meaning-token
// document engine.
//
// This package contains type definitions, canonical serialization, and
// content-addressed identity only. All other internal packages import token;
// token imports nothing internal. This keeps it the foundational layer with
// no circular dependencies.
//
// Key design constraints:
//   - Token kinds and capabilities are closed enums compared by value,
//     never by type identity
//   - NO float types in payloads or interaction args - use int64
//   - All JSON tags use snake_case and match the public attribute names
//   - TokenState equality ignores view-local metadata
package token
