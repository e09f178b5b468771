// fieldextract runs one PDF through the extraction pipeline from the command
// line, without a server or a store.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/docufield/docufield/internal/entity"
	"github.com/docufield/docufield/internal/extract"
	"github.com/docufield/docufield/internal/llm/openai"
	"github.com/docufield/docufield/internal/normalize"
	"github.com/docufield/docufield/internal/observability/logging"
	"github.com/docufield/docufield/internal/patterns"
	"github.com/docufield/docufield/internal/pdftext"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		pdfPath    string
		fieldSpecs []string
		textOnly   bool
		noLLM      bool
		timeout    time.Duration
		logLevel   string
	)
	pflag.StringVarP(&pdfPath, "pdf", "p", "", "path to the PDF file (required)")
	pflag.StringArrayVarP(&fieldSpecs, "field", "f", nil, "field to extract, as name or name=description (repeatable)")
	pflag.BoolVar(&textOnly, "text-only", false, "print extracted text and exit")
	pflag.BoolVar(&noLLM, "no-llm", false, "skip the LLM backend and use pattern matching only")
	pflag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall run timeout")
	pflag.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pflag.Parse()

	if pdfPath == "" {
		pflag.Usage()
		return fmt.Errorf("--pdf is required")
	}
	if !textOnly && len(fieldSpecs) == 0 {
		return fmt.Errorf("at least one --field is required (or use --text-only)")
	}

	_ = godotenv.Load()
	log := logging.NewJSONLogger("fieldextract", logLevel)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	raw, err := os.ReadFile(pdfPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", pdfPath, err)
	}

	textExtractor := pdftext.NewExtractor(pdftext.Config{}, log)
	text, err := textExtractor.Extract(ctx, base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	if textOnly {
		fmt.Println(text)
		return nil
	}

	fields, err := parseFields(fieldSpecs)
	if err != nil {
		return err
	}

	var primary extract.FieldExtractor
	if !noLLM && os.Getenv("OPENAI_API_KEY") != "" {
		primary = openai.NewClient(openai.Config{}, log)
	}
	fallback := patterns.NewExtractor(log)
	combined := extract.NewCombined(primary, fallback, log, nil)

	results, err := combined.ExtractFields(ctx, text, fields)
	if err != nil {
		return fmt.Errorf("extract fields: %w", err)
	}
	results = normalize.Results(results)

	out := make(map[string]string, len(results))
	for _, r := range results {
		name := r.FieldID
		for _, f := range fields {
			if f.ID == r.FieldID {
				name = f.Name
			}
		}
		out[name] = r.Value
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// parseFields turns "name" or "name=description" specs into fields with
// sequential ids.
func parseFields(specs []string) ([]entity.ExtractionField, error) {
	fields := make([]entity.ExtractionField, 0, len(specs))
	for i, spec := range specs {
		name, desc, _ := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("field spec %d is empty", i+1)
		}
		fields = append(fields, entity.ExtractionField{
			ID:          fmt.Sprintf("field-%d", i+1),
			Name:        name,
			Description: strings.TrimSpace(desc),
		})
	}
	return fields, nil
}
