// Package pdf converts rendered HTML reports into PDF documents using an
// external rendering engine. The default engine is headless Chrome driven
// over the DevTools protocol; the Engine interface keeps the converter
// testable without a browser.
package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ConversionError wraps the rendering engine's failure verbatim
type ConversionError struct {
	Path  string
	Cause error
}

// Error implements the error interface
func (e *ConversionError) Error() string {
	return fmt.Sprintf("pdf conversion of %s failed: %v", e.Path, e.Cause)
}

// Unwrap returns the engine's error
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Converter turns HTML files into PDF byte streams
type Converter struct {
	engine Engine
	logger *slog.Logger
}

// NewConverter creates a converter backed by the given engine.
// A nil engine defaults to headless Chrome.
func NewConverter(engine Engine, logger *slog.Logger) *Converter {
	if engine == nil {
		engine = NewChromeEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{engine: engine, logger: logger}
}

// ConvertFile renders the HTML file at htmlPath and returns the PDF bytes.
// Engine failures pass through wrapped in *ConversionError.
func (c *Converter) ConvertFile(ctx context.Context, htmlPath string) ([]byte, error) {
	if _, err := os.Stat(htmlPath); err != nil {
		return nil, &ConversionError{Path: htmlPath, Cause: err}
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, &ConversionError{Path: htmlPath, Cause: err}
	}

	pdf, err := c.engine.PrintToPDF(ctx, "file://"+abs)
	if err != nil {
		return nil, &ConversionError{Path: htmlPath, Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &ConversionError{Path: htmlPath, Cause: fmt.Errorf("engine returned empty document")}
	}

	c.logger.InfoContext(ctx, "pdf converted",
		slog.String("html_path", htmlPath),
		slog.Int("pdf_bytes", len(pdf)))

	return pdf, nil
}
