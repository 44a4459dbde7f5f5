package report

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reportcli/internal/dataprocessing"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// TemplateName is the file name looked up in a custom templates directory
const TemplateName = "report.html.tmpl"

// Artifact file names written into the output directory
const (
	HTMLFileName  = "report.html"
	ChartFileName = "revenue_chart.png"
	PDFFileName   = "report.pdf"
)

// Renderer fills the HTML report template with parsed data and the
// computed summary, and writes the chart image alongside it.
type Renderer struct {
	title  string
	chart  ChartOptions
	tmpl   *template.Template
	logger *slog.Logger
}

// Artifacts lists the files a render produced
type Artifacts struct {
	HTMLPath  string
	ChartPath string
}

// NewRenderer creates a renderer. templatesDir may be empty, in which case
// the embedded default template is used; otherwise report.html.tmpl is
// loaded from that directory.
func NewRenderer(title string, chart ChartOptions, templatesDir string, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := loadTemplate(templatesDir)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		title:  title,
		chart:  chart,
		tmpl:   tmpl,
		logger: logger,
	}, nil
}

// loadTemplate parses the report template from disk or the embedded default
func loadTemplate(templatesDir string) (*template.Template, error) {
	if templatesDir != "" {
		path := filepath.Join(templatesDir, TemplateName)
		tmpl, err := template.ParseFiles(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
		}
		return tmpl, nil
	}

	tmpl, err := template.ParseFS(templateFS, "templates/"+TemplateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// templateData is the root object the report template executes against
type templateData struct {
	Title          string
	GeneratedAt    string
	ChartFile      string
	TotalOrders    int
	TotalRevenue   string
	AverageRevenue string
	BestDay        bestDayData
	Rows           []rowData
}

type bestDayData struct {
	Date    string
	Revenue string
}

type rowData struct {
	Date    string
	Orders  int
	Revenue string
}

// Render writes the chart PNG and the filled HTML report into outDir and
// returns the paths of both artifacts.
func (r *Renderer) Render(ctx context.Context, rows []dataprocessing.ReportRow, summary dataprocessing.ReportSummary, outDir string) (Artifacts, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return Artifacts{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	chartPNG, err := RenderRevenueChart(rows, r.chart)
	if err != nil {
		return Artifacts{}, err
	}

	chartPath := filepath.Join(outDir, ChartFileName)
	if err := os.WriteFile(chartPath, chartPNG, 0644); err != nil {
		return Artifacts{}, fmt.Errorf("failed to write chart image: %w", err)
	}

	html, err := r.RenderHTML(rows, summary)
	if err != nil {
		return Artifacts{}, err
	}

	htmlPath := filepath.Join(outDir, HTMLFileName)
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return Artifacts{}, fmt.Errorf("failed to write report HTML: %w", err)
	}

	r.logger.InfoContext(ctx, "report rendered",
		slog.String("html_path", htmlPath),
		slog.String("chart_path", chartPath),
		slog.Int("rows", len(rows)))

	return Artifacts{HTMLPath: htmlPath, ChartPath: chartPath}, nil
}

// RenderHTML fills the report template and returns the HTML document
func (r *Renderer) RenderHTML(rows []dataprocessing.ReportRow, summary dataprocessing.ReportSummary) (string, error) {
	data := templateData{
		Title:          r.title,
		GeneratedAt:    time.Now().Format("2006-01-02 15:04"),
		ChartFile:      ChartFileName,
		TotalOrders:    summary.TotalOrders,
		TotalRevenue:   formatMoney(summary.TotalRevenue),
		AverageRevenue: formatMoney(summary.AverageRevenue),
		BestDay: bestDayData{
			Date:    summary.BestDay.Format("2006-01-02"),
			Revenue: formatMoney(summary.BestDayRevenue),
		},
		Rows: make([]rowData, 0, len(rows)),
	}

	for _, row := range rows {
		data.Rows = append(data.Rows, rowData{
			Date:    row.Date.Format("2006-01-02"),
			Orders:  row.Orders,
			Revenue: formatMoney(row.Revenue),
		})
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}

	return sb.String(), nil
}

// formatMoney renders a dollar amount with thousands separators, e.g. $1,234.50
func formatMoney(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := fmt.Sprintf("%.2f", amount)
	dot := strings.Index(whole, ".")
	intPart, fracPart := whole[:dot], whole[dot:]

	var sb strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return sign + "$" + sb.String() + fracPart
}
