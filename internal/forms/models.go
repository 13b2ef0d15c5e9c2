package forms

// Unit identifies the coordinate space of a BoundingBox
type Unit string

const (
	// UnitPixel is source units multiplied by the analysis scale
	UnitPixel Unit = "pixel"
	// UnitPageFraction expresses coordinates as fractions of the page extent
	UnitPageFraction Unit = "page_fraction"
)

// FieldType is the closed set of value types a field can carry
type FieldType string

const (
	FieldTypeText       FieldType = "text"
	FieldTypeDate       FieldType = "date"
	FieldTypeIdentifier FieldType = "identifier"
	FieldTypePhone      FieldType = "phone"
	FieldTypeEmail      FieldType = "email"
	FieldTypeCurrency   FieldType = "currency"
	FieldTypePostalCode FieldType = "postal_code"
	FieldTypeCheckbox   FieldType = "checkbox"
	FieldTypeNumber     FieldType = "number"
)

// Valid reports whether t is one of the known field types
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeDate, FieldTypeIdentifier, FieldTypePhone, FieldTypeEmail,
		FieldTypeCurrency, FieldTypePostalCode, FieldTypeCheckbox, FieldTypeNumber:
		return true
	default:
		return false
	}
}

// MedicalType is the domain category a field belongs to
type MedicalType string

const (
	MedicalTypePersonalInfo   MedicalType = "personal_info"
	MedicalTypeIdentification MedicalType = "identification"
	MedicalTypeContact        MedicalType = "contact"
	MedicalTypeInsurance      MedicalType = "insurance"
	MedicalTypeProvider       MedicalType = "provider"
	MedicalTypeMedication     MedicalType = "medication"
	MedicalTypeTreatment      MedicalType = "treatment"
	MedicalTypeMedicalHistory MedicalType = "medical_history"
	MedicalTypeBilling        MedicalType = "billing"
	MedicalTypeConsent        MedicalType = "consent"
	MedicalTypeOther          MedicalType = "other"
)

// Severity grades how badly two field overlays collide
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// DocumentStatus tracks a document through review. Analysis only ever
// produces StatusAnalyzed; the other states belong to the review workflow.
type DocumentStatus string

const (
	StatusPending     DocumentStatus = "pending"
	StatusAnalyzing   DocumentStatus = "analyzing"
	StatusAnalyzed    DocumentStatus = "analyzed"
	StatusValidated   DocumentStatus = "validated"
	StatusApproved    DocumentStatus = "approved"
	StatusRejected    DocumentStatus = "rejected"
	StatusNeedsReview DocumentStatus = "needs_review"
)

// BoundingBox is an axis-aligned rectangle on one page
type BoundingBox struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PageNumber int     `json:"page_number"`
	Unit       Unit    `json:"unit"`
}

// Area returns width times height
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

// Right returns the x coordinate of the right edge
func (b BoundingBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the y coordinate of the bottom edge
func (b BoundingBox) Bottom() float64 {
	return b.Y + b.Height
}

// CapacityInfo describes how much text fits on one line of a field
type CapacityInfo struct {
	MaxCharactersPerLine int     `json:"max_characters_per_line"`
	ValueLength          int     `json:"value_length"`
	Fits                 bool    `json:"fits"`
	OverflowRatio        float64 `json:"overflow_ratio"`
}

// DetectedField is one analyzed form field
type DetectedField struct {
	FieldID     string      `json:"field_id"`
	DisplayName string      `json:"display_name"`
	FieldType   FieldType   `json:"field_type"`
	MedicalType MedicalType `json:"medical_type"`
	Value       string      `json:"value"`
	Confidence  float64     `json:"confidence"`

	// ClassificationConfidence is the multiplier applied to the source confidence
	ClassificationConfidence float64 `json:"classification_confidence"`

	BoundingBox *BoundingBox  `json:"bounding_box,omitempty"`
	PageNumber  int           `json:"page_number"`
	Capacity    *CapacityInfo `json:"capacity,omitempty"`
	FontFamily  string        `json:"font_family"`
	FontSize    float64       `json:"font_size"`
}

// Conflict is an overlap between two positioned fields on the same page
type Conflict struct {
	FieldIDA         string   `json:"field_id_a"`
	FieldIDB         string   `json:"field_id_b"`
	PageNumber       int      `json:"page_number"`
	OverlapAreaRatio float64  `json:"overlap_area_ratio"`
	Severity         Severity `json:"severity"`
}

// Summary holds roll-up counts for an analysis
type Summary struct {
	TotalFields       int                 `json:"total_fields"`
	PositionedFields  int                 `json:"positioned_fields"`
	OverflowingFields int                 `json:"overflowing_fields"`
	ConflictCounts    map[Severity]int    `json:"conflict_counts"`
	MedicalTypeCounts map[MedicalType]int `json:"medical_type_counts"`
}

// AnalysisResult is the output of one analysis. It shares no memory with the
// input or with any other result.
type AnalysisResult struct {
	Status             DocumentStatus  `json:"status"`
	Unit               Unit            `json:"unit"`
	Fields             []DetectedField `json:"fields"`
	Conflicts          []Conflict      `json:"conflicts"`
	DocumentConfidence float64         `json:"document_confidence"`
	Completeness       float64         `json:"completeness"`
	Summary            Summary         `json:"summary"`
	Warnings           []string        `json:"warnings"`
}
