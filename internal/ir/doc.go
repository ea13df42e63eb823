// Package ir provides the intermediate representation handed to the binding
// generator by the type-resolution stage.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Every IR value is read-only once constructed
//   - Declaration order is significant and is preserved through slices
//   - TypeRef is opaque; only an injected renderer interprets it
//   - All JSON tags use snake_case
package ir
