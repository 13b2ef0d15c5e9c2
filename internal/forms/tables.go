package forms

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validator is a named value pattern mapped to a field type
type Validator struct {
	Name      string
	FieldType FieldType
	Pattern   *regexp.Regexp
}

// CategoryRule maps label keywords to a medical category
type CategoryRule struct {
	MedicalType MedicalType
	Keywords    []string
}

// Tables is the lookup configuration for classification and capacity.
// A Tables value is never mutated after construction; Extend returns a copy.
type Tables struct {
	// FontWidths maps a normalized font family to its average character
	// width as a fraction of the font size
	FontWidths map[string]float64
	// FallbackCharWidth is used for unrecognized families
	FallbackCharWidth float64
	// Categories are evaluated in order; the first matching category wins
	Categories []CategoryRule
	// Validators are evaluated in order; the first matching pattern wins
	Validators []Validator
	// UnclassifiedPenalty reduces confidence for fields with MedicalTypeOther
	UnclassifiedPenalty float64
}

// Default table constants
const (
	DefaultFallbackCharWidth   = 0.6
	DefaultUnclassifiedPenalty = 0.2
)

// DefaultTables returns the built-in tables. Each call returns an
// independent value.
func DefaultTables() Tables {
	return Tables{
		FontWidths:          defaultFontWidths(),
		FallbackCharWidth:   DefaultFallbackCharWidth,
		Categories:          defaultCategories(),
		Validators:          defaultValidators(),
		UnclassifiedPenalty: DefaultUnclassifiedPenalty,
	}
}

// FontWidth returns the average character width for a family
func (t Tables) FontWidth(family string) (float64, bool) {
	w, ok := t.FontWidths[normalizeFamily(family)]
	if !ok {
		return t.FallbackCharWidth, false
	}
	return w, true
}

// Validate checks that the tables can drive an analysis
func (t Tables) Validate() error {
	if t.FallbackCharWidth <= 0 {
		return newInputError(ErrorKindInvalidTables, nil, "fallback character width must be positive")
	}
	// unmatched labels must always score below matched ones
	if !(t.UnclassifiedPenalty > 0 && t.UnclassifiedPenalty < 1) {
		return newInputError(ErrorKindInvalidTables, nil, "unclassified penalty must be in (0, 1), got %v", t.UnclassifiedPenalty)
	}
	for family, w := range t.FontWidths {
		if w <= 0 {
			return newInputError(ErrorKindInvalidTables, nil, "font %q has non-positive width %v", family, w)
		}
	}
	for i, v := range t.Validators {
		if strings.TrimSpace(v.Name) == "" {
			return newInputError(ErrorKindInvalidTables, nil, "validator %d has no name", i)
		}
		if !v.FieldType.Valid() {
			return newInputError(ErrorKindInvalidTables, nil, "validator %q has unknown field type %q", v.Name, v.FieldType)
		}
		if v.Pattern == nil {
			return newInputError(ErrorKindInvalidTables, nil, "validator %d (%s) has no pattern", i, v.Name)
		}
	}
	for _, c := range t.Categories {
		if c.MedicalType == MedicalTypeOther {
			return newInputError(ErrorKindInvalidTables, nil, "category %q is reserved for unmatched labels", MedicalTypeOther)
		}
	}
	return nil
}

// TablesFile is the YAML shape accepted by LoadTables
type TablesFile struct {
	FallbackCharWidth   *float64           `yaml:"fallback_char_width"`
	UnclassifiedPenalty *float64           `yaml:"unclassified_penalty"`
	FontWidths          map[string]float64 `yaml:"font_widths"`
	Categories          []struct {
		MedicalType string   `yaml:"medical_type"`
		Keywords    []string `yaml:"keywords"`
	} `yaml:"categories"`
	Validators []struct {
		Name      string `yaml:"name"`
		FieldType string `yaml:"field_type"`
		Pattern   string `yaml:"pattern"`
	} `yaml:"validators"`
}

// Extend returns a copy of t with ext merged in. Font widths override by
// family. Keywords for an existing category are appended to it; new
// categories go to the end of the table. Extension validators run before
// the existing ones, in file order.
func (t Tables) Extend(ext TablesFile) (Tables, error) {
	out := t.clone()

	if ext.FallbackCharWidth != nil {
		out.FallbackCharWidth = *ext.FallbackCharWidth
	}
	if ext.UnclassifiedPenalty != nil {
		out.UnclassifiedPenalty = *ext.UnclassifiedPenalty
	}
	for family, w := range ext.FontWidths {
		out.FontWidths[normalizeFamily(family)] = w
	}

	for _, c := range ext.Categories {
		mt := MedicalType(strings.TrimSpace(c.MedicalType))
		if mt == "" {
			return Tables{}, newInputError(ErrorKindInvalidTables, nil, "category without medical_type")
		}
		merged := false
		for i := range out.Categories {
			if out.Categories[i].MedicalType == mt {
				out.Categories[i].Keywords = append(out.Categories[i].Keywords, c.Keywords...)
				merged = true
				break
			}
		}
		if !merged {
			out.Categories = append(out.Categories, CategoryRule{MedicalType: mt, Keywords: append([]string(nil), c.Keywords...)})
		}
	}

	var extra []Validator
	for _, v := range ext.Validators {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return Tables{}, newInputError(ErrorKindInvalidTables, nil, "validator without name")
		}
		ft := FieldType(strings.TrimSpace(v.FieldType))
		if !ft.Valid() {
			return Tables{}, newInputError(ErrorKindInvalidTables, nil, "validator %q has unknown field type %q", name, v.FieldType)
		}
		re, err := regexp.Compile(v.Pattern)
		if err != nil {
			return Tables{}, newInputError(ErrorKindInvalidTables, err, "validator %q has an invalid pattern", v.Name)
		}
		extra = append(extra, Validator{Name: name, FieldType: ft, Pattern: re})
	}
	out.Validators = append(extra, out.Validators...)

	if err := out.Validate(); err != nil {
		return Tables{}, err
	}
	return out, nil
}

// LoadTables reads a YAML table extension and merges it into the defaults
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to read tables file %s: %w", path, err)
	}
	return ParseTables(data)
}

// ParseTables merges YAML table data into the defaults
func ParseTables(data []byte) (Tables, error) {
	var ext TablesFile
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return Tables{}, newInputError(ErrorKindInvalidTables, err, "tables file is not valid YAML")
	}
	return DefaultTables().Extend(ext)
}

func (t Tables) clone() Tables {
	out := Tables{
		FontWidths:          make(map[string]float64, len(t.FontWidths)),
		FallbackCharWidth:   t.FallbackCharWidth,
		Categories:          make([]CategoryRule, len(t.Categories)),
		Validators:          append([]Validator(nil), t.Validators...),
		UnclassifiedPenalty: t.UnclassifiedPenalty,
	}
	for k, v := range t.FontWidths {
		out.FontWidths[k] = v
	}
	for i, c := range t.Categories {
		out.Categories[i] = CategoryRule{MedicalType: c.MedicalType, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

func normalizeFamily(family string) string {
	f := strings.ToLower(strings.TrimSpace(family))
	f = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(f)
	return f
}
