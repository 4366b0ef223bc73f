package lspserver

import (
	"cmp"
	"context"
	"log"
	"path/filepath"
	"slices"
	"strings"

	jsonv2 "encoding/json/v2"

	protocol "github.com/ekropotin/quickmark-go/internal/lsp/protocol"
)

// clientSettings is the server's view of the client's configuration, scoped
// per workspace folder. quickmark has exactly one configuration resolver,
// internal/config, so there is no separate editor-preference layer here —
// just a settings override map per folder that internal/config.Configuration
// overlays on top of whatever quickmark.toml discovery finds.
type clientSettings struct {
	Global     folderSettings
	Workspaces []workspaceFolderSettings
}

type workspaceFolderSettings struct {
	Root     string
	Settings folderSettings
}

type folderSettings struct {
	ConfigurationOverrides map[string]any
}

func defaultClientSettings() clientSettings {
	return clientSettings{}
}

func (s *Server) handleDidChangeConfiguration(
	ctx context.Context,
	params *protocol.DidChangeConfigurationParams,
) {
	next, ok := parseClientSettings(params.Settings)
	if !ok {
		log.Printf("lsp: didChangeConfiguration: unable to parse settings payload")
		return
	}

	s.settingsMu.Lock()
	s.settings = next
	s.settingsMu.Unlock()

	// Settings affect lint results, so clear caches.
	s.lintCache.clear()

	// Push model: recompute and publish diagnostics immediately.
	if s.pushDiagnosticsEnabled() {
		for _, doc := range s.documents.All() {
			s.publishDiagnostics(ctx, doc)
		}
		return
	}

	// Pull model: notify the client to re-pull. golang.org/x/exp/jsonrpc2
	// exposes workspace/diagnostic/refresh as a request in the spec, but a
	// notification is enough to make the client re-issue its pull and
	// avoids depending on this server's exact Call/Await signature for a
	// response nothing here needs.
	if s.diagnosticRefreshSupported() {
		if err := s.conn.Notify(ctx, string(protocol.MethodWorkspaceDiagnosticRefresh), nil); err != nil {
			log.Printf("lsp: workspace/diagnostic/refresh failed: %v", err)
		}
	}
}

func (s *Server) settingsForFile(filePath string) folderSettings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()

	filePath = filepath.Clean(filePath)

	best := s.settings.Global
	for _, ws := range s.settings.Workspaces {
		if ws.Root == "" {
			continue
		}
		if pathWithin(ws.Root, filePath) {
			best = ws.Settings
			break
		}
	}
	return best
}

func pathWithin(root, filePath string) bool {
	root = filepath.Clean(root)
	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return false
	}
	return !filepath.IsAbs(rel)
}

type settingsEnvelopeWire struct {
	Global     folderSettingsWire      `json:"global"`
	Workspaces []workspaceSettingsWire `json:"workspaces"`
}

type workspaceSettingsWire struct {
	URI      string             `json:"uri"`
	Settings folderSettingsWire `json:"settings"`
}

type folderSettingsWire struct {
	Configuration any `json:"configuration"`
}

// parseClientSettings accepts either a bare settings object or one nested
// under a "quickmark" key, the shape workspace/didChangeConfiguration
// notifications use when a client multiplexes several extensions'
// settings under one payload.
func parseClientSettings(settings any) (clientSettings, bool) {
	inner := settings
	if m, ok := settings.(map[string]any); ok {
		if v, ok := m["quickmark"]; ok {
			inner = v
		}
	}

	raw, err := jsonv2.Marshal(inner)
	if err != nil {
		return clientSettings{}, false
	}

	var wire settingsEnvelopeWire
	if err := jsonv2.Unmarshal(raw, &wire); err != nil {
		return clientSettings{}, false
	}

	out := clientSettings{
		Global: folderSettings{
			ConfigurationOverrides: toOverridesMap(wire.Global.Configuration),
		},
	}

	for _, ws := range wire.Workspaces {
		out.Workspaces = append(out.Workspaces, workspaceFolderSettings{
			Root: uriToPath(ws.URI),
			Settings: folderSettings{
				ConfigurationOverrides: toOverridesMap(ws.Settings.Configuration),
			},
		})
	}

	slices.SortFunc(out.Workspaces, func(a, b workspaceFolderSettings) int {
		// Prefer longer roots first so nested workspaces win.
		return cmp.Compare(len(b.Root), len(a.Root))
	})

	return out, true
}

func toOverridesMap(v any) map[string]any {
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
