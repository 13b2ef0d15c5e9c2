package descriptions

// Tool descriptions with practical examples and use cases

const (
	FormAnalyzeDescription = `Turn raw form detection output into overlay-ready, validated form fields.

**When to use:** You have the key/value output of a document-analysis or OCR service for a scanned form and need field boxes you can draw, field categories, and a check that each value fits its box.

**What it returns:** Every field with a canonical bounding box, a value type (date, identifier, phone, currency, ...), a medical category (personal_info, insurance, treatment, ...), a per-field confidence, single-line capacity for the configured font, every pair of overlapping fields with a severity, and document confidence and completeness.

**Examples:**
• Overlay check: "Analyze intake-scan.json and tell me which fields overlap"
• Font sizing: "Analyze claim.json with font_size 9 and list fields that do not fit"
• Normalized coordinates: "Analyze referral.json with unit page_fraction against referral.pdf"

**Input:** Either 'path' (a JSON file in the documents directory) or 'content' (the JSON itself). Optional 'pdf_path' supplies page sizes when the raw result has none.

**Best practices:** Read the warnings list; fields without a position are still reported but have no box, no capacity and never conflict.`

	FormPageDimensionsDescription = `Report the size of every page of a PDF in points.

**When to use:** Before analyzing detection output that does not declare page sizes, or to pick a scale that maps detection units onto the PDF.

**Examples:**
• "What are the page sizes of consent-form.pdf?"
• "Which scale turns inch coordinates into points for intake.pdf?" (72 points per inch)`

	FormServerInfoDescription = `Get analyzer configuration, available tools and the built-in classification tables.

**When to use:** To learn which font families have width metrics, which medical categories exist, and the default unit, scale and font before running an analysis.`
)
