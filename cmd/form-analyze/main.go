package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-form-analyzer/internal/forms"
	"github.com/a3tai/mcp-form-analyzer/internal/pdfpages"
)

var (
	outputFormat = pflag.String("format", "text", "Output format: text, json")
	unit         = pflag.String("unit", string(forms.UnitPixel), "Output unit: pixel, page_fraction")
	scale        = pflag.Float64("scale", 0, "Source-to-pixel scale (0 derives it from the raw result's unit)")
	fontFamily   = pflag.String("font-family", forms.DefaultFontFamily, "Font family for capacity estimation")
	fontSize     = pflag.Float64("font-size", forms.DefaultFontSize, "Font size for capacity estimation")
	tablesFile   = pflag.String("tables", "", "YAML file extending the built-in tables")
	pdfPath      = pflag.String("pdf", "", "Source PDF providing page sizes")
	verbose      = pflag.Bool("verbose", false, "Enable verbose output")
	help         = pflag.Bool("help", false, "Show help message")
)

var log = logrus.New()

func main() {
	pflag.Parse()

	if *help {
		printHelp()
		return
	}

	if pflag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: raw analysis file required\n\n")
		printUsage()
		os.Exit(1)
	}

	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	result, err := analyzeFile(pflag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing form: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(os.Stdout, result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Form Analyze - turn raw form detection output into overlay-ready fields")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	pflag.PrintDefaults()
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Printf("  %s [options] <raw-analysis.json|->\n", os.Args[0])
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Printf("  %s intake.json\n", os.Args[0])
	fmt.Printf("  %s --format=json --unit=page_fraction --pdf=intake.pdf intake.json\n", os.Args[0])
	fmt.Printf("  cat intake.json | %s --font-size=9 -\n", os.Args[0])
}

func buildOptions(raw *forms.RawAnalysis) (forms.Options, error) {
	opts := forms.DefaultOptions()
	opts.Unit = forms.Unit(*unit)
	opts.Scale = *scale
	opts.FontFamily = *fontFamily
	opts.FontSize = *fontSize

	if *tablesFile != "" {
		tables, err := forms.LoadTables(*tablesFile)
		if err != nil {
			return forms.Options{}, err
		}
		opts.Tables = tables
	}

	if *pdfPath != "" {
		f, err := os.Open(*pdfPath)
		if err != nil {
			return forms.Options{}, fmt.Errorf("failed to open PDF: %w", err)
		}
		defer f.Close()

		sizes, err := pdfpages.ReadPageSizes(f)
		if err != nil {
			return forms.Options{}, err
		}
		extents, err := pdfpages.Extents(sizes, raw.Unit)
		if err != nil {
			log.WithError(err).Warn("ignoring PDF page sizes")
		} else {
			opts.PageExtents = extents
			log.WithField("pages", len(extents)).Debug("loaded page extents from PDF")
		}
	}
	return opts, nil
}

func analyzeFile(path string) (*forms.AnalysisResult, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	raw, err := forms.ParseRawAnalysis(data)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"pages": len(raw.Pages), "primitives": raw.PrimitiveCount()}).Debug("parsed raw analysis")

	opts, err := buildOptions(raw)
	if err != nil {
		return nil, err
	}
	return forms.Analyze(raw, opts)
}

func outputResults(w io.Writer, result *forms.AnalysisResult) error {
	switch strings.ToLower(*outputFormat) {
	case "json":
		data, err := forms.EncodeResult(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "text":
		return outputText(w, result)
	default:
		return fmt.Errorf("unknown output format: %s", *outputFormat)
	}
}

func outputText(w io.Writer, result *forms.AnalysisResult) error {
	fmt.Fprintf(w, "Fields: %d   Confidence: %.3f   Completeness: %.1f%%\n",
		len(result.Fields), result.DocumentConfidence, result.Completeness*100)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for _, f := range result.Fields {
		fmt.Fprintf(w, "%s  %q\n", f.FieldID, f.DisplayName)
		fmt.Fprintf(w, "  type=%s medical=%s confidence=%.3f page=%d\n", f.FieldType, f.MedicalType, f.Confidence, f.PageNumber)
		if f.BoundingBox != nil {
			b := f.BoundingBox
			fmt.Fprintf(w, "  box=(%.2f, %.2f) %.2fx%.2f %s\n", b.X, b.Y, b.Width, b.Height, b.Unit)
		} else {
			fmt.Fprintln(w, "  box=none")
		}
		if f.Capacity != nil {
			fits := "fits"
			if !f.Capacity.Fits {
				fits = "OVERFLOWS"
			}
			fmt.Fprintf(w, "  capacity=%d chars, value=%d chars (%s)\n", f.Capacity.MaxCharactersPerLine, f.Capacity.ValueLength, fits)
		}
	}

	if len(result.Conflicts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Conflicts:")
		for _, c := range result.Conflicts {
			fmt.Fprintf(w, "  page %d: %s <> %s overlap=%.2f %s\n", c.PageNumber, c.FieldIDA, c.FieldIDB, c.OverlapAreaRatio, c.Severity)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}
	return nil
}
