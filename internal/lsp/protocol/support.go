// Package protocol supplies the narrow slice of LSP 3.17 types
// internal/lspserver needs: document-sync, diagnostics (push and pull),
// and the lifecycle messages around them. It does not attempt full LSP
// coverage — no code actions, formatting, or execute-command types, since
// quickmark's LSP server does not offer those capabilities.
package protocol

// DocumentUri is an LSP document URI.
//
//nolint:staticcheck // Keep LSP spec naming for generated compatibility.
type DocumentUri string

// URI is a generic LSP URI.
type URI string

// Method is an LSP method name.
type Method string
