package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docufield/docufield/constants"
)

// Config controls the extractor.
type Config struct {
	// SkipValidation disables the pdfcpu structural pre-check. The check
	// rejects corrupt and encrypted files before the text parser runs.
	SkipValidation bool
}

// Extractor turns a base64 PDF payload into cleaned plain text.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract decodes pdfData (optionally data-URI prefixed), parses the PDF and
// returns the concatenated page text, cleaned. When parsing succeeds but
// yields no text, it returns constants.NoTextPlaceholder, never "".
// The decoded bytes are materialized to a scratch file for the duration of
// parsing; the file is removed on every exit path.
func (e *Extractor) Extract(ctx context.Context, pdfData string) (string, error) {
	start := time.Now()

	raw, err := DecodeBase64(pdfData)
	if err != nil {
		e.logger.Error("pdftext.decode_failed", "error", err)
		return "", err
	}
	e.logger.Info("pdftext.start", "pdf_bytes", len(raw))

	scratch, err := os.CreateTemp("", "docufield-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	scratchPath := scratch.Name()
	defer func() {
		if rerr := os.Remove(scratchPath); rerr != nil && !os.IsNotExist(rerr) {
			e.logger.Warn("pdftext.scratch_remove_failed", "path", scratchPath, "error", rerr)
		}
	}()

	if _, err := scratch.Write(raw); err != nil {
		_ = scratch.Close()
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := scratch.Close(); err != nil {
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	if !e.cfg.SkipValidation {
		if err := e.validate(scratchPath); err != nil {
			e.logger.Error("pdftext.validate_failed", "error", err)
			return "", err
		}
	}

	text, err := e.parseFile(ctx, scratchPath)
	if err != nil {
		e.logger.Error("pdftext.parse_failed", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		e.logger.Warn("pdftext.no_text", "pdf_bytes", len(raw))
		cleaned = constants.NoTextPlaceholder
	}

	e.logger.Info("pdftext.ok",
		"text_len", len(cleaned),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cleaned, nil
}

func (e *Extractor) validate(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return &ParseError{Stage: "validate", Err: err}
	}
	return nil
}

// parseFile reads the whole-document plain text; if that comes back empty it
// falls back to manual page/run reconstruction.
func (e *Extractor) parseFile(ctx context.Context, path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &ParseError{Stage: "parse", Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("pdftext.close_failed", "error", cerr)
		}
	}()

	text := e.rawText(reader)
	if strings.TrimSpace(text) == "" {
		e.logger.Info("pdftext.raw_empty_fallback", "pages", reader.NumPage())
		text, err = e.reconstruct(ctx, reader)
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

func (e *Extractor) rawText(reader *pdf.Reader) string {
	plain, err := reader.GetPlainText()
	if err != nil {
		// Fall through to manual reconstruction.
		e.logger.Warn("pdftext.plain_text_failed", "error", err)
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		e.logger.Warn("pdftext.plain_text_read_failed", "error", err)
		return ""
	}
	return buf.String()
}

// reconstruct walks pages and text runs, percent-decoding each run part
// (falling back to the raw text when decoding fails), joining parts with a
// trailing space and inserting a blank line after each page.
func (e *Extractor) reconstruct(ctx context.Context, reader *pdf.Reader) (string, error) {
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, run := range page.Content().Text {
			b.WriteString(decodeRunPart(run.S))
			b.WriteString(" ")
		}
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func decodeRunPart(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
