package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a3tai/mcp-form-analyzer/internal/forms"
)

const sampleForm = `{
  "unit": "inch",
  "pages": [{
    "pageNumber": 1,
    "primitives": [
      {"id": "first", "label": "First Name", "value": "Ada", "confidence": 0.9,
       "regions": [{"polygon": [1, 1, 1.2, 1, 1.2, 1.25, 1, 1.25]}]},
      {"id": "last", "label": "Last Name", "value": "Lovelace", "confidence": 0.9,
       "regions": [{"polygon": [1, 1, 1.2, 1, 1.2, 1.25, 1, 1.25]}]},
      {"id": "note", "label": "Notes", "value": ""}
    ]
  }]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.json")
	if err := os.WriteFile(path, []byte(sampleForm), 0o600); err != nil {
		t.Fatalf("Failed to write sample: %v", err)
	}
	return path
}

func TestAnalyzeFile(t *testing.T) {
	result, err := analyzeFile(writeSample(t))
	if err != nil {
		t.Fatalf("analyzeFile() error = %v", err)
	}
	if len(result.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(result.Fields))
	}
	if len(result.Conflicts) != 1 {
		t.Errorf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	if !forms.HasWarning(result, forms.WarnUnpositionedField) {
		t.Errorf("expected unpositioned warning, got %v", result.Warnings)
	}
}

func TestAnalyzeFile_Errors(t *testing.T) {
	if _, err := analyzeFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"pages": 3}`), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := analyzeFile(bad); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestOutputResults(t *testing.T) {
	result, err := analyzeFile(writeSample(t))
	if err != nil {
		t.Fatalf("analyzeFile() error = %v", err)
	}

	oldFormat := *outputFormat
	defer func() { *outputFormat = oldFormat }()

	t.Run("text", func(t *testing.T) {
		*outputFormat = "text"
		var buf bytes.Buffer
		if err := outputResults(&buf, result); err != nil {
			t.Fatalf("outputResults() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{"Fields: 3", "first <> last", "severe", "OVERFLOWS", "box=none", "Warnings:"} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		*outputFormat = "JSON"
		var buf bytes.Buffer
		if err := outputResults(&buf, result); err != nil {
			t.Fatalf("outputResults() error = %v", err)
		}
		var decoded forms.AnalysisResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(decoded.Fields) != 3 {
			t.Errorf("decoded %d fields, want 3", len(decoded.Fields))
		}
	})

	t.Run("unknown", func(t *testing.T) {
		*outputFormat = "yaml"
		if err := outputResults(&bytes.Buffer{}, result); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
