package forms

import "regexp"

// defaultFontWidths returns average character widths in em units, taken
// from the standard 14 AFM metrics averaged over mixed-case English text.
func defaultFontWidths() map[string]float64 {
	return map[string]float64{
		"helvetica":      0.52,
		"helveticabold":  0.56,
		"arial":          0.52,
		"arialbold":      0.56,
		"timesroman":     0.45,
		"timesnewroman":  0.45,
		"times":          0.45,
		"timesbold":      0.48,
		"courier":        0.60,
		"couriernew":     0.60,
		"courierbold":    0.60,
		"verdana":        0.58,
		"georgia":        0.50,
		"calibri":        0.47,
		"tahoma":         0.52,
		"trebuchetms":    0.50,
		"dejavusans":     0.55,
		"dejavusansmono": 0.60,
		"liberationsans": 0.52,
	}
}

// defaultCategories returns the medical category table. Order matters:
// specific categories precede generic ones so that "insurance member id"
// lands in insurance and "provider phone" in provider.
func defaultCategories() []CategoryRule {
	return []CategoryRule{
		{
			MedicalType: MedicalTypeInsurance,
			Keywords: []string{
				"insurance", "insurer", "insured", "policy", "policy number", "group number",
				"member id", "member number", "subscriber", "payer", "health plan",
				"coverage", "medicare", "medicaid", "copay", "co pay", "carrier",
			},
		},
		{
			MedicalType: MedicalTypeIdentification,
			Keywords: []string{
				"ssn", "social security", "mrn", "medical record", "record number",
				"patient id", "chart number", "driver license", "drivers license",
				"license number", "passport", "id number", "identifier", "national id",
			},
		},
		{
			MedicalType: MedicalTypeProvider,
			Keywords: []string{
				"physician", "doctor", "provider", "npi", "clinic", "hospital",
				"referring", "practitioner", "facility", "attending", "pcp",
			},
		},
		{
			MedicalType: MedicalTypeMedication,
			Keywords: []string{
				"medication", "medications", "medicine", "drug", "drugs", "dosage",
				"dose", "prescription", "rx", "pharmacy", "refills", "frequency",
			},
		},
		{
			MedicalType: MedicalTypeTreatment,
			Keywords: []string{
				"diagnosis", "procedure", "treatment", "symptoms", "symptom", "complaint",
				"reason for visit", "icd", "cpt", "therapy", "condition", "visit",
				"admission", "discharge",
			},
		},
		{
			MedicalType: MedicalTypeMedicalHistory,
			Keywords: []string{
				"history", "allergies", "allergy", "surgeries", "surgery",
				"immunization", "immunizations", "vaccination", "past medical",
				"smoker", "tobacco", "alcohol",
			},
		},
		{
			MedicalType: MedicalTypeBilling,
			Keywords: []string{
				"amount", "balance", "charge", "charges", "payment", "fee",
				"total", "invoice", "billing", "account number", "due",
			},
		},
		{
			MedicalType: MedicalTypeConsent,
			Keywords: []string{
				"signature", "consent", "authorize", "authorization", "signed",
				"witness", "guardian", "acknowledge",
			},
		},
		{
			MedicalType: MedicalTypeContact,
			Keywords: []string{
				"phone", "telephone", "mobile", "cell", "email", "e mail", "address",
				"street", "city", "state", "zip", "zip code", "postal code",
				"emergency contact", "fax",
			},
		},
		{
			MedicalType: MedicalTypePersonalInfo,
			Keywords: []string{
				"name", "first name", "last name", "middle name", "date of birth",
				"dob", "birth", "birthdate", "age", "sex", "gender", "marital",
				"occupation", "employer", "patient", "race", "ethnicity", "language",
			},
		},
	}
}

// defaultValidators returns the value patterns in evaluation order.
// Dates precede numbers and identifiers precede phones so that a
// hyphenated SSN is never read as something looser.
func defaultValidators() []Validator {
	return []Validator{
		{
			Name:      "date",
			FieldType: FieldTypeDate,
			Pattern:   regexp.MustCompile(`^(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}|\d{4}-\d{2}-\d{2}|(?i:(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*)\.?\s+\d{1,2},?\s+\d{4})$`),
		},
		{
			Name:      "ssn",
			FieldType: FieldTypeIdentifier,
			Pattern:   regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`),
		},
		{
			Name:      "medicare_id",
			FieldType: FieldTypeIdentifier,
			Pattern:   regexp.MustCompile(`^[1-9][A-Za-z][A-Za-z0-9]\d-?[A-Za-z][A-Za-z0-9]\d-?[A-Za-z]{2}\d{2}$`),
		},
		{
			Name:      "phone",
			FieldType: FieldTypePhone,
			Pattern:   regexp.MustCompile(`^(\+?1[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}$`),
		},
		{
			Name:      "email",
			FieldType: FieldTypeEmail,
			Pattern:   regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
		},
		{
			Name:      "currency",
			FieldType: FieldTypeCurrency,
			Pattern:   regexp.MustCompile(`^-?[$€£]\s?(\d{1,3}(,\d{3})+|\d+)(\.\d{1,2})?$`),
		},
		{
			Name:      "postal_code",
			FieldType: FieldTypePostalCode,
			Pattern:   regexp.MustCompile(`^\d{5}(-\d{4})?$`),
		},
		{
			Name:      "checkbox",
			FieldType: FieldTypeCheckbox,
			Pattern:   regexp.MustCompile(`^(?i)(\[\s*[x✓]?\s*\]|☐|☑|☒|x|yes|no|checked|unchecked|selected|unselected)$`),
		},
		{
			Name:      "number",
			FieldType: FieldTypeNumber,
			Pattern:   regexp.MustCompile(`^-?\d+([.,]\d+)?$`),
		},
	}
}
