package operations

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"reportcli/internal/dataprocessing"
	"reportcli/internal/exporter"
	"reportcli/internal/mailer"
	"reportcli/internal/pdf"
	"reportcli/internal/report"
)

// LoadStep parses the sales data file into report rows
type LoadStep struct {
	BaseStep
	dataFile string
	parse    func(path string) ([]dataprocessing.ReportRow, error)
}

// NewLoadStep creates the data loading step. dataFile is the default input
// path, overridable per run via the run request.
func NewLoadStep(dataFile string) *LoadStep {
	return &LoadStep{
		BaseStep: NewBaseStep(StepIDLoad, StepNameLoad),
		dataFile: dataFile,
		parse:    dataprocessing.ParseFile,
	}
}

// Execute implements Step
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	path := state.GetString(ContextKeyDataFile)
	if path == "" {
		path = s.dataFile
		state.SetContext(ContextKeyDataFile, path)
	}

	rows, err := s.parse(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewError(KindFileNotFound, s.ID(), fmt.Sprintf("data file %s not found", path), err)
		}
		var parseErr *dataprocessing.ParseError
		if errors.As(err, &parseErr) {
			return NewError(KindParse, s.ID(), parseErr.Error(), err)
		}
		return NewError(KindExecution, s.ID(), "failed to load data", err)
	}

	state.SetContext(ContextKeyRows, rows)
	return nil
}

// RenderStep computes the summary and renders the HTML report with its chart
type RenderStep struct {
	BaseStep
	renderer  *report.Renderer
	csvWriter *exporter.CSVWriter
}

// NewRenderStep creates the report rendering step
func NewRenderStep(renderer *report.Renderer, csvWriter *exporter.CSVWriter) *RenderStep {
	return &RenderStep{
		BaseStep:  NewBaseStep(StepIDRender, StepNameRender),
		renderer:  renderer,
		csvWriter: csvWriter,
	}
}

// Validate implements Step
func (s *RenderStep) Validate(state *RunState) error {
	if _, ok := state.GetContext(ContextKeyRows); !ok {
		return fmt.Errorf("no parsed rows in run state")
	}
	return nil
}

// Execute implements Step
func (s *RenderStep) Execute(ctx context.Context, state *RunState) error {
	val, _ := state.GetContext(ContextKeyRows)
	rows, ok := val.([]dataprocessing.ReportRow)
	if !ok {
		return NewError(KindRender, s.ID(), "run state holds no report rows", nil)
	}

	summary, err := dataprocessing.Summarize(rows)
	if err != nil {
		return NewError(KindRender, s.ID(), "failed to summarize data", err)
	}

	outDir := state.GetString(ContextKeyOutputDir)
	artifacts, err := s.renderer.Render(ctx, rows, summary, outDir)
	if err != nil {
		return NewError(KindRender, s.ID(), "failed to render report", err)
	}

	summaryCSV := filepath.Join(outDir, "summary.csv")
	if s.csvWriter != nil {
		if err := s.csvWriter.WriteSummaryCSV(summaryCSV, summary); err != nil {
			return NewError(KindRender, s.ID(), "failed to write summary CSV", err)
		}
		state.SetContext(ContextKeySummaryCSV, summaryCSV)
	}

	state.SetContext(ContextKeySummary, summary)
	state.SetContext(ContextKeyHTMLPath, artifacts.HTMLPath)
	state.SetContext(ContextKeyChartPath, artifacts.ChartPath)
	return nil
}

// ConvertStep turns the rendered HTML into a PDF document
type ConvertStep struct {
	BaseStep
	converter *pdf.Converter
}

// NewConvertStep creates the PDF conversion step
func NewConvertStep(converter *pdf.Converter) *ConvertStep {
	return &ConvertStep{
		BaseStep:  NewBaseStep(StepIDConvert, StepNameConvert),
		converter: converter,
	}
}

// Validate implements Step
func (s *ConvertStep) Validate(state *RunState) error {
	if state.GetString(ContextKeyHTMLPath) == "" {
		return fmt.Errorf("no rendered HTML in run state")
	}
	return nil
}

// Execute implements Step
func (s *ConvertStep) Execute(ctx context.Context, state *RunState) error {
	htmlPath := state.GetString(ContextKeyHTMLPath)

	pdfBytes, err := s.converter.ConvertFile(ctx, htmlPath)
	if err != nil {
		return NewError(KindConversion, s.ID(), "failed to convert report to PDF", err)
	}

	pdfPath := filepath.Join(state.GetString(ContextKeyOutputDir), report.PDFFileName)
	if err := os.WriteFile(pdfPath, pdfBytes, 0644); err != nil {
		return NewError(KindConversion, s.ID(), "failed to write PDF file", err)
	}

	state.SetContext(ContextKeyPDFPath, pdfPath)
	return nil
}

// Sender dispatches a report email. Satisfied by mailer.Mailer.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// SendStep emails the report to the configured recipients
type SendStep struct {
	BaseStep
	mailer  Sender
	subject string
}

// NewSendStep creates the email dispatch step
func NewSendStep(m Sender, subject string) *SendStep {
	return &SendStep{
		BaseStep: NewBaseStep(StepIDSend, StepNameSend),
		mailer:   m,
		subject:  subject,
	}
}

// Validate implements Step
func (s *SendStep) Validate(state *RunState) error {
	if state.GetString(ContextKeyHTMLPath) == "" {
		return fmt.Errorf("no rendered HTML in run state")
	}
	return nil
}

// Execute implements Step
func (s *SendStep) Execute(ctx context.Context, state *RunState) error {
	htmlBody, err := os.ReadFile(state.GetString(ContextKeyHTMLPath))
	if err != nil {
		return NewError(KindSend, s.ID(), "failed to read report HTML", err)
	}

	msg := mailer.Message{
		Subject: s.subject,
		HTML:    string(htmlBody),
	}

	if chartPath := state.GetString(ContextKeyChartPath); chartPath != "" {
		data, err := os.ReadFile(chartPath)
		if err != nil {
			return NewError(KindSend, s.ID(), "failed to read chart image", err)
		}
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename: report.ChartFileName,
			Data:     data,
			MimeType: "image/png",
		})
	}

	if pdfPath := state.GetString(ContextKeyPDFPath); pdfPath != "" {
		data, err := os.ReadFile(pdfPath)
		if err != nil {
			return NewError(KindSend, s.ID(), "failed to read PDF file", err)
		}
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename: report.PDFFileName,
			Data:     data,
			MimeType: "application/pdf",
		})
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		return NewError(KindSend, s.ID(), "failed to send report email", err)
	}

	return nil
}
