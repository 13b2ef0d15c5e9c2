package forms

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()
	require.NoError(t, tables.Validate())

	w, known := tables.FontWidth("Helvetica")
	assert.True(t, known)
	assert.Equal(t, 0.52, w)

	w, known = tables.FontWidth("  Times New Roman ")
	assert.True(t, known)
	assert.Equal(t, 0.45, w)

	w, known = tables.FontWidth("Papyrus")
	assert.False(t, known)
	assert.Equal(t, DefaultFallbackCharWidth, w)

	// each call is independent
	tables.FontWidths["helvetica"] = 9
	w, _ = DefaultTables().FontWidth("Helvetica")
	assert.Equal(t, 0.52, w)
}

func TestTablesValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
	}{
		{"zero fallback width", func(tb *Tables) { tb.FallbackCharWidth = 0 }},
		{"penalty of one", func(tb *Tables) { tb.UnclassifiedPenalty = 1 }},
		{"negative penalty", func(tb *Tables) { tb.UnclassifiedPenalty = -0.1 }},
		{"zero penalty", func(tb *Tables) { tb.UnclassifiedPenalty = 0 }},
		{"validator without name", func(tb *Tables) {
			tb.Validators = append(tb.Validators, Validator{FieldType: FieldTypeText, Pattern: regexp.MustCompile(`.`)})
		}},
		{"validator with unknown field type", func(tb *Tables) {
			tb.Validators = append(tb.Validators, Validator{Name: "fruit", FieldType: "banana", Pattern: regexp.MustCompile(`.`)})
		}},
		{"non-positive font width", func(tb *Tables) { tb.FontWidths["broken"] = 0 }},
		{"validator without pattern", func(tb *Tables) {
			tb.Validators = append(tb.Validators, Validator{Name: "empty", FieldType: FieldTypeText})
		}},
		{"reserved category", func(tb *Tables) {
			tb.Categories = append(tb.Categories, CategoryRule{MedicalType: MedicalTypeOther, Keywords: []string{"misc"}})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			tt.mutate(&tables)

			err := tables.Validate()
			require.Error(t, err)

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, ErrorKindInvalidTables, inputErr.Kind)
		})
	}
}

const extensionYAML = `
fallback_char_width: 0.55
font_widths:
  Comic Sans: 0.58
  Helvetica: 0.5
categories:
  - medical_type: insurance
    keywords: ["plan id"]
  - medical_type: dental
    keywords: ["tooth", "molar"]
validators:
  - name: mrn
    field_type: identifier
    pattern: '^MRN-\d{6}$'
`

func TestParseTables(t *testing.T) {
	tables, err := ParseTables([]byte(extensionYAML))
	require.NoError(t, err)

	assert.Equal(t, 0.55, tables.FallbackCharWidth)
	assert.Equal(t, DefaultUnclassifiedPenalty, tables.UnclassifiedPenalty)

	w, known := tables.FontWidth("comic-sans")
	assert.True(t, known)
	assert.Equal(t, 0.58, w)
	w, _ = tables.FontWidth("Helvetica")
	assert.Equal(t, 0.5, w)

	assert.Equal(t, MedicalTypeInsurance, Classify("Plan ID", "", tables).MedicalType)

	last := tables.Categories[len(tables.Categories)-1]
	assert.Equal(t, MedicalType("dental"), last.MedicalType)
	assert.Equal(t, MedicalType("dental"), Classify("Upper Molar", "", tables).MedicalType)

	assert.Equal(t, "mrn", tables.Validators[0].Name)
	c := Classify("", "MRN-123456", tables)
	assert.Equal(t, FieldTypeIdentifier, c.FieldType)
	assert.Equal(t, "mrn", c.Validator)
	assert.Len(t, tables.Validators, len(DefaultTables().Validators)+1)
}

func TestParseTables_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "font_widths: [unclosed"},
		{"bad pattern", "validators:\n  - name: broken\n    field_type: text\n    pattern: '(['\n"},
		{"penalty out of range", "unclassified_penalty: 1.5\n"},
		{"zero penalty", "unclassified_penalty: 0\n"},
		{"unknown field type", "validators:\n  - name: anything\n    field_type: banana\n    pattern: '.*'\n"},
		{"validator without field type", "validators:\n  - name: anything\n    pattern: '.*'\n"},
		{"validator without name", "validators:\n  - field_type: text\n    pattern: '.*'\n"},
		{"category without type", "categories:\n  - keywords: [x]\n"},
		{"reserved category", "categories:\n  - medical_type: other\n    keywords: [x]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTables([]byte(tt.yaml))
			require.Error(t, err)

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, ErrorKindInvalidTables, inputErr.Kind)
		})
	}
}

func TestExtendDoesNotMutateReceiver(t *testing.T) {
	base := DefaultTables()
	categories := len(base.Categories)
	insuranceKeywords := len(base.Categories[0].Keywords)
	validators := len(base.Validators)

	penalty := 0.3
	_, err := base.Extend(TablesFile{
		UnclassifiedPenalty: &penalty,
		FontWidths:          map[string]float64{"Helvetica": 0.9},
		Categories: []struct {
			MedicalType string   `yaml:"medical_type"`
			Keywords    []string `yaml:"keywords"`
		}{
			{MedicalType: "insurance", Keywords: []string{"plan id"}},
			{MedicalType: "dental", Keywords: []string{"tooth"}},
		},
	})
	require.NoError(t, err)

	assert.Len(t, base.Categories, categories)
	assert.Len(t, base.Categories[0].Keywords, insuranceKeywords)
	assert.Len(t, base.Validators, validators)
	assert.Equal(t, DefaultUnclassifiedPenalty, base.UnclassifiedPenalty)
	assert.Equal(t, 0.52, base.FontWidths["helvetica"])
}

func TestLoadTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(extensionYAML), 0o600))

	tables, err := LoadTables(path)
	require.NoError(t, err)
	assert.Equal(t, 0.55, tables.FallbackCharWidth)

	_, err = LoadTables(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
