package lspserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/exp/jsonrpc2"

	"github.com/ekropotin/quickmark-go/internal/config"
	"github.com/ekropotin/quickmark-go/internal/linter"
	protocol "github.com/ekropotin/quickmark-go/internal/lsp/protocol"
	"github.com/ekropotin/quickmark-go/internal/rules"
)

// publishDiagnostics lints a document and publishes diagnostics to the client.
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	violations, cfg := s.lintContent(doc.URI, []byte(doc.Content))
	diagnostics := convertDiagnostics(violations, cfg)

	version := doc.Version
	if err := lspNotify(ctx, s.conn, string(protocol.MethodTextDocumentPublishDiagnostics), &protocol.PublishDiagnosticsParams{
		Uri:         protocol.DocumentUri(doc.URI),
		Version:     &version,
		Diagnostics: diagnostics,
	}); err != nil {
		log.Printf("lsp: failed to publish diagnostics for %s: %v", doc.URI, err)
	}
}

// clearDiagnostics sends an empty diagnostics array to clear issues for a URI.
func clearDiagnostics(ctx context.Context, conn *jsonrpc2.Connection, docURI string, version *int32) {
	if err := lspNotify(ctx, conn, string(protocol.MethodTextDocumentPublishDiagnostics), &protocol.PublishDiagnosticsParams{
		Uri:         protocol.DocumentUri(docURI),
		Version:     version,
		Diagnostics: []*protocol.Diagnostic{},
	}); err != nil {
		log.Printf("lsp: failed to clear diagnostics for %s: %v", docURI, err)
	}
}

// handleDiagnostic handles textDocument/diagnostic (pull diagnostics).
func (s *Server) handleDiagnostic(params *protocol.DocumentDiagnosticParams) (any, error) {
	uri := string(params.TextDocument.Uri)

	if doc := s.documents.Get(uri); doc != nil {
		resultID := fmt.Sprintf("v%d", doc.Version)
		if params.PreviousResultId != nil && *params.PreviousResultId == resultID {
			return &protocol.DocumentDiagnosticReport{
				Kind:     protocol.DocumentDiagnosticReportKindUnchanged,
				ResultId: &resultID,
			}, nil
		}

		diagnostics, cached := s.lintCache.get(uri, doc.Version)
		if !cached {
			violations, cfg := s.lintContent(uri, []byte(doc.Content))
			diagnostics = convertDiagnostics(violations, cfg)
			s.lintCache.set(uri, doc.Version, diagnostics)
		}

		return &protocol.DocumentDiagnosticReport{
			Kind:     protocol.DocumentDiagnosticReportKindFull,
			ResultId: &resultID,
			Items:    diagnostics,
		}, nil
	}

	filePath := uriToPath(uri)
	return pullDiagnosticsFromDisk(filePath, params.PreviousResultId), nil
}

// pullDiagnosticsFromDisk reads content from disk and returns a diagnostic report.
func pullDiagnosticsFromDisk(filePath string, previousResultID *string) *protocol.DocumentDiagnosticReport {
	content, err := os.ReadFile(filePath)
	if err != nil {
		empty := []*protocol.Diagnostic{}
		return &protocol.DocumentDiagnosticReport{
			Kind:  protocol.DocumentDiagnosticReportKindFull,
			Items: empty,
		}
	}

	resultID := contentHash(content)
	if previousResultID != nil && *previousResultID == resultID {
		return &protocol.DocumentDiagnosticReport{
			Kind:     protocol.DocumentDiagnosticReportKindUnchanged,
			ResultId: &resultID,
		}
	}

	violations, cfg := lintFile(filePath, content)
	diagnostics := convertDiagnostics(violations, cfg)

	return &protocol.DocumentDiagnosticReport{
		Kind:     protocol.DocumentDiagnosticReportKindFull,
		ResultId: &resultID,
		Items:    diagnostics,
	}
}

// contentHash returns a truncated SHA-256 hex digest of content (16 hex chars).
func contentHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:8])
}

// lintContent runs the full quickmark lint pipeline on in-memory content,
// resolving config from the document's settings override (if any) or from
// the workspace's own discovery.
func (s *Server) lintContent(docURI string, content []byte) ([]rules.Violation, *config.Configuration) {
	filePath := uriToPath(docURI)
	return s.lintFileWithSettings(filePath, content)
}

func (s *Server) lintFileWithSettings(filePath string, content []byte) ([]rules.Violation, *config.Configuration) {
	folder := s.settingsForFile(filePath)
	var cfg *config.Configuration
	if len(folder.ConfigurationOverrides) > 0 {
		cfg = config.LoadOrDefault(filePath, "")
		for alias, raw := range folder.ConfigurationOverrides {
			if cfg.Settings == nil {
				cfg.Settings = map[string]map[string]any{}
			}
			if m, ok := raw.(map[string]any); ok {
				cfg.Settings[alias] = m
			}
		}
	}

	result, err := linter.LintFile(linter.Input{
		FilePath: filePath,
		Content:  content,
		Config:   cfg,
	})
	if err != nil {
		log.Printf("lsp: lint error for %s: %v", filePath, err)
		return nil, config.Default()
	}
	return result.Violations, result.Config
}

// lintFile is the no-override entry point used for on-disk pull requests.
func lintFile(filePath string, content []byte) ([]rules.Violation, *config.Configuration) {
	result, err := linter.LintFile(linter.Input{FilePath: filePath, Content: content})
	if err != nil {
		log.Printf("lsp: lint error for %s: %v", filePath, err)
		return nil, config.Default()
	}
	return result.Violations, result.Config
}

// convertDiagnostics converts quickmark violations to LSP diagnostics.
func convertDiagnostics(violations []rules.Violation, cfg *config.Configuration) []*protocol.Diagnostic {
	diagnostics := make([]*protocol.Diagnostic, 0, len(violations))
	for _, v := range violations {
		sev := rules.SeverityError
		if cfg != nil {
			if s, ok := cfg.Severity[v.Rule.Alias]; ok {
				sev = s
			}
		}
		code := v.Rule.Alias
		diagnostics = append(diagnostics, &protocol.Diagnostic{
			Range:    violationRange(v),
			Severity: ptrTo(severityToLSP(sev)),
			Source:   ptrTo("quickmark"),
			Code:     &code,
			Message:  v.Message,
		})
	}
	return diagnostics
}

// violationRange converts a Violation's zero-based Range to an LSP Range.
func violationRange(v rules.Violation) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      clampUint32(v.Range.Start.Line),
			Character: clampUint32(v.Range.Start.Character),
		},
		End: protocol.Position{
			Line:      clampUint32(v.Range.End.Line),
			Character: clampUint32(v.Range.End.Character),
		},
	}
}

// severityToLSP converts a Severity to an LSP DiagnosticSeverity.
func severityToLSP(s rules.Severity) protocol.DiagnosticSeverity {
	switch s {
	case rules.SeverityError:
		return protocol.DiagnosticSeverityError
	case rules.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityHint
	}
}

// clampUint32 safely converts an int to uint32, clamping negative values to 0.
func clampUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v) //nolint:gosec // line/column numbers are well within uint32 range
}

// uriToPath converts a file:// URI to a local file path.
func uriToPath(docURI string) string {
	parsed, err := url.Parse(docURI)
	if err != nil {
		return strings.TrimPrefix(docURI, "file://")
	}
	path := parsed.Path
	// On Windows, file URIs look like file:///C:/path, so Path is /C:/path.
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}
