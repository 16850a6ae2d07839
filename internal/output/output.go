// Package output emits the site configuration with its resolved navigation
// as YAML or JSON.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/navbuilder/internal/config"
	"git.home.luguber.info/inful/navbuilder/internal/nav"
)

// Format selects the output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use yaml or json)", s)
	}
}

// FormatForPath picks the format from a file extension, YAML by default.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Document is the emitted site configuration. Repo, Navbar and Sidebar are
// the resolved values and replace the ones in Config.Theme.
type Document struct {
	Config  *config.Config
	Repo    string
	Navbar  []nav.Entry
	Sidebar *nav.Sidebar
}

// node builds the document body, without fingerprint, as a YAML mapping of
// site and theme.
func (d Document) node() (*yaml.Node, error) {
	var theme config.Theme
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if d.Config != nil {
		var site yaml.Node
		if err := site.Encode(d.Config.Site); err != nil {
			return nil, err
		}
		root.Content = append(root.Content, scalar("site"), &site)
		theme = d.Config.Theme
	}
	theme.Repo = d.Repo
	theme.Navbar = d.Navbar
	theme.Sidebar = d.Sidebar

	var themeNode yaml.Node
	if err := themeNode.Encode(theme); err != nil {
		return nil, err
	}
	themeNode.Style = 0
	if err := ensureKey(&themeNode, "navbar", []nav.Entry{}); err != nil {
		return nil, err
	}
	if err := ensureKey(&themeNode, "sidebar", &nav.Sidebar{}); err != nil {
		return nil, err
	}
	root.Content = append(root.Content, scalar("theme"), &themeNode)
	return root, nil
}

// ensureKey appends key with value to mapping m when it is absent.
func ensureKey(m *yaml.Node, key string, value any) error {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return nil
		}
	}
	var v yaml.Node
	if err := v.Encode(value); err != nil {
		return err
	}
	m.Content = append(m.Content, scalar(key), &v)
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func marshalYAML(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fingerprint hashes the canonical YAML form of the document.
func Fingerprint(doc Document) (string, error) {
	body, err := doc.node()
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	return fingerprintOf(body)
}

func fingerprintOf(body *yaml.Node) (string, error) {
	canonical, err := yaml.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(canonical), "\n"), ""), nil
}

// Encode renders doc with its fingerprint in the given format.
func Encode(doc Document, format Format) ([]byte, error) {
	data, _, err := encode(doc, format)
	return data, err
}

func encode(doc Document, format Format) ([]byte, string, error) {
	body, err := doc.node()
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal document: %w", err)
	}
	fp, err := fingerprintOf(body)
	if err != nil {
		return nil, "", err
	}
	body.Content = append([]*yaml.Node{scalar(mdfp.FingerprintField), scalar(fp)}, body.Content...)

	switch format {
	case FormatJSON:
		var compact bytes.Buffer
		if err := writeJSON(&compact, body); err != nil {
			return nil, "", fmt.Errorf("failed to marshal document: %w", err)
		}
		var out bytes.Buffer
		if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
			return nil, "", fmt.Errorf("failed to marshal document: %w", err)
		}
		out.WriteByte('\n')
		return out.Bytes(), fp, nil
	case FormatYAML, "":
		data, err := marshalYAML(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal document: %w", err)
		}
		return data, fp, nil
	default:
		return nil, "", fmt.Errorf("unsupported output format %q", format)
	}
}

// writeJSON renders a YAML node tree as JSON, keeping mapping key order.
func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return writeJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return nil
}

// Write renders doc to w.
func Write(w io.Writer, doc Document, format Format) error {
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes doc to path unless the file already carries the same
// fingerprint. It reports whether the file was written.
func WriteFile(path string, doc Document, format Format) (bool, error) {
	data, fp, err := encode(doc, format)
	if err != nil {
		return false, err
	}

	if existing, err := os.ReadFile(path); err == nil {
		if storedFingerprint(existing) == fp && isJSON(existing) == (format == FormatJSON) {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return false, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return true, nil
}

// storedFingerprint reads the fingerprint field of a previous output.
// JSON is valid YAML, so one decoder covers both formats.
func storedFingerprint(data []byte) string {
	var head map[string]any
	if err := yaml.Unmarshal(data, &head); err != nil {
		return ""
	}
	fp, _ := head[mdfp.FingerprintField].(string)
	return fp
}

func isJSON(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}
