// Package codegen renders TypeScript client bindings from the IR.
//
// Every renderer is a pure function of its inputs. Type literals are never
// computed here: each TypeRef is handed to an injected TypeRenderer, and any
// error it returns aborts the whole run so a partial document is never
// produced.
//
// Rendering layers, leaves first:
//
//   - result.go: result-shape classification and invocation expressions
//   - function.go: async function declarations and JSDoc blocks
//   - commands.go: one function per command inside `export const commands`
//   - events.go: the parallel event name and type tables
//   - statics.go: `export const` bindings for static values
//   - document.go: banner assembly and the Generate entry point
//
// The generated code calls the runtime primitive named by InvokeFunc and
// never defines it; the globals block supplied by the caller does.
package codegen
