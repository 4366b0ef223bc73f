package protocol

// Method name constants for the messages this server handles or sends.
const (
	MethodTextDocumentDiagnostic         Method = "textDocument/diagnostic"
	MethodTextDocumentPublishDiagnostics Method = "textDocument/publishDiagnostics"
	MethodWorkspaceDiagnosticRefresh     Method = "workspace/diagnostic/refresh"
)

// JSON-RPC error codes used by this server's responses.
type ErrorCode int

const (
	ErrorCodeInvalidParams  ErrorCode = -32602
	ErrorCodeMethodNotFound ErrorCode = -32601
)

// Position is a zero-based line/character (UTF-16 code unit) position.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a half-open [Start, End) span.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// DiagnosticSeverity mirrors the LSP severity enum.
type DiagnosticSeverity int

const (
	DiagnosticSeverityError       DiagnosticSeverity = 1
	DiagnosticSeverityWarning     DiagnosticSeverity = 2
	DiagnosticSeverityInformation DiagnosticSeverity = 3
	DiagnosticSeverityHint        DiagnosticSeverity = 4
)

// CodeDescription points to documentation for a diagnostic's code.
type CodeDescription struct {
	Href URI `json:"href"`
}

// Diagnostic is a single lint finding as reported over LSP.
type Diagnostic struct {
	Range           Range               `json:"range"`
	Severity        *DiagnosticSeverity `json:"severity,omitempty"`
	Code            *string             `json:"code,omitempty"`
	CodeDescription *CodeDescription    `json:"codeDescription,omitempty"`
	Source          *string             `json:"source,omitempty"`
	Message         string              `json:"message"`
}

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	Uri DocumentUri `json:"uri"`
}

// VersionedTextDocumentIdentifier adds a version to TextDocumentIdentifier.
type VersionedTextDocumentIdentifier struct {
	Uri     DocumentUri `json:"uri"`
	Version int32       `json:"version"`
}

// TextDocumentItem is the full document payload sent on open.
type TextDocumentItem struct {
	Uri        DocumentUri `json:"uri"`
	LanguageId string      `json:"languageId"`
	Version    int32       `json:"version"`
	Text       string      `json:"text"`
}

// TextDocumentContentChangeEvent carries one sync update. The server only
// advertises full-document sync (TextDocumentSyncKindFull), so a change
// event always carries the whole new text and never a Range.
type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

// DidOpenTextDocumentParams is sent once when a document is opened.
type DidOpenTextDocumentParams struct {
	TextDocument *TextDocumentItem `json:"textDocument"`
}

// DidChangeTextDocumentParams is sent on every edit.
type DidChangeTextDocumentParams struct {
	TextDocument   *VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidSaveTextDocumentParams is sent on save; Text is present only when the
// client negotiated includeText.
type DidSaveTextDocumentParams struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument"`
	Text         *string                 `json:"text,omitempty"`
}

// DidCloseTextDocumentParams is sent when a document is closed in the editor.
type DidCloseTextDocumentParams struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument"`
}

// DidChangeConfigurationParams carries the client's updated settings blob.
type DidChangeConfigurationParams struct {
	Settings any `json:"settings"`
}

// PublishDiagnosticsParams is the server->client push notification.
type PublishDiagnosticsParams struct {
	Uri         DocumentUri   `json:"uri"`
	Version     *int32        `json:"version,omitempty"`
	Diagnostics []*Diagnostic `json:"diagnostics"`
}

// DocumentDiagnosticParams is the client->server pull request.
type DocumentDiagnosticParams struct {
	TextDocument     TextDocumentIdentifier `json:"textDocument"`
	PreviousResultId *string                `json:"previousResultId,omitempty"`
}

const (
	DocumentDiagnosticReportKindFull      = "full"
	DocumentDiagnosticReportKindUnchanged = "unchanged"
)

// DocumentDiagnosticReport is the pull-mode response. Kind discriminates
// between a fresh report (Items populated) and an unchanged one (only
// ResultId, telling the client to keep what it already has).
type DocumentDiagnosticReport struct {
	Kind     string        `json:"kind"`
	ResultId *string       `json:"resultId,omitempty"`
	Items    []*Diagnostic `json:"items,omitempty"`
}

// WorkspaceFolder names one root the client has open.
type WorkspaceFolder struct {
	Uri  DocumentUri `json:"uri"`
	Name string      `json:"name"`
}

// DiagnosticClientCapabilities advertises pull-diagnostics support.
type DiagnosticClientCapabilities struct {
	DynamicRegistration *bool `json:"dynamicRegistration,omitempty"`
}

// TextDocumentClientCapabilities is the subset this server inspects.
type TextDocumentClientCapabilities struct {
	Diagnostic *DiagnosticClientCapabilities `json:"diagnostic,omitempty"`
}

// DiagnosticWorkspaceClientCapabilities advertises workspace-diagnostic
// refresh support.
type DiagnosticWorkspaceClientCapabilities struct {
	RefreshSupport *bool `json:"refreshSupport,omitempty"`
}

// WorkspaceClientCapabilities is the subset this server inspects.
type WorkspaceClientCapabilities struct {
	Diagnostics *DiagnosticWorkspaceClientCapabilities `json:"diagnostics,omitempty"`
}

// ClientCapabilities is the subset of the client's capabilities this
// server reads (to decide push vs. pull diagnostics mode).
type ClientCapabilities struct {
	TextDocument *TextDocumentClientCapabilities `json:"textDocument,omitempty"`
	Workspace    *WorkspaceClientCapabilities    `json:"workspace,omitempty"`
}

// InitializationOptions carries quickmark-specific init options.
type InitializationOptions struct {
	DisablePushDiagnostics *bool `json:"disablePushDiagnostics,omitempty"`
}

// InitializeParams is the client's initialize request payload.
type InitializeParams struct {
	ProcessId             *int64                 `json:"processId,omitempty"`
	Capabilities          *ClientCapabilities    `json:"capabilities,omitempty"`
	InitializationOptions *InitializationOptions `json:"initializationOptions,omitempty"`
	WorkspaceFolders      []*WorkspaceFolder     `json:"workspaceFolders,omitempty"`
	RootUri               *DocumentUri           `json:"rootUri,omitempty"`
}

// TextDocumentSyncKind selects how document changes are communicated.
type TextDocumentSyncKind int

const (
	TextDocumentSyncKindNone        TextDocumentSyncKind = 0
	TextDocumentSyncKindFull        TextDocumentSyncKind = 1
	TextDocumentSyncKindIncremental TextDocumentSyncKind = 2
)

// SaveOptions configures textDocument/didSave.
type SaveOptions struct {
	IncludeText *bool `json:"includeText,omitempty"`
}

// TextDocumentSyncOptions is the server's document-sync capability.
type TextDocumentSyncOptions struct {
	OpenClose *bool                 `json:"openClose,omitempty"`
	Change    *TextDocumentSyncKind `json:"change,omitempty"`
	Save      *SaveOptions          `json:"save,omitempty"`
}

// DiagnosticOptions is the server's pull-diagnostics capability.
type DiagnosticOptions struct {
	Identifier            *string `json:"identifier,omitempty"`
	InterFileDependencies bool    `json:"interFileDependencies"`
	WorkspaceDiagnostics  bool    `json:"workspaceDiagnostics"`
}

// ServerCapabilities is the subset of capabilities quickmark's server
// advertises. No code-action, formatting, or execute-command entries —
// the core does not auto-fix documents.
type ServerCapabilities struct {
	TextDocumentSync   *TextDocumentSyncOptions `json:"textDocumentSync,omitempty"`
	DiagnosticProvider *DiagnosticOptions       `json:"diagnosticProvider,omitempty"`
}

// ServerInfo identifies the server to the client.
type ServerInfo struct {
	Name    string  `json:"name"`
	Version *string `json:"version,omitempty"`
}

// InitializeResult is the server's reply to initialize.
type InitializeResult struct {
	Capabilities *ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo         `json:"serverInfo,omitempty"`
}
