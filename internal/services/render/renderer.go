// Package render turns valuation results and literal strings into markup
// fragments, and renders the static page shells.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"FinStream/internal/domain/models"
)

//go:embed templates
var templateFS embed.FS

// DefaultDecimals is used when no decimal count is configured.
const DefaultDecimals int32 = 2

// Renderer builds fragments. It holds no per-request state.
type Renderer struct {
	decimals int32
	tmpl     *template.Template
}

type textData struct {
	MountID string
	Content template.HTML
}

type resultData struct {
	MountID string
	Result  models.ValuationResult
}

// NewRenderer parses the fragment templates. Numbers are rounded to decimals
// places for display.
func NewRenderer(decimals int32) (*Renderer, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must be >= 0, got %d", decimals)
	}
	r := &Renderer{decimals: decimals}
	tmpl, err := template.New("fragments").
		Funcs(template.FuncMap{"round": func(v float64) string { return Round(v, r.decimals) }}).
		ParseFS(templateFS, "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragment templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Decimals returns the display precision.
func (r *Renderer) Decimals() int32 { return r.decimals }

// Render wraps content for mountID. A string is inserted verbatim; a
// ValuationResult becomes the cash flow table with its totals row.
func (r *Renderer) Render(mountID string, content any) (models.Fragment, error) {
	switch v := content.(type) {
	case string:
		return r.execute("text.html", mountID, textData{MountID: mountID, Content: template.HTML(v)})
	case models.ValuationResult:
		return r.execute("table.html", mountID, resultData{MountID: mountID, Result: v})
	case *models.ValuationResult:
		if v == nil {
			return models.Fragment{}, fmt.Errorf("render %s: nil result", mountID)
		}
		return r.execute("table.html", mountID, resultData{MountID: mountID, Result: *v})
	default:
		return models.Fragment{}, fmt.Errorf("render %s: unsupported content %T", mountID, content)
	}
}

// RenderHeadline renders the total present value on its own.
func (r *Renderer) RenderHeadline(mountID string, res models.ValuationResult) (models.Fragment, error) {
	return r.execute("headline.html", mountID, resultData{MountID: mountID, Result: res})
}

func (r *Renderer) execute(name, mountID string, data any) (models.Fragment, error) {
	if mountID == "" {
		return models.Fragment{}, fmt.Errorf("render %s: empty mount id", name)
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return models.Fragment{}, fmt.Errorf("render %s: %w", name, err)
	}
	return models.Fragment{MountID: mountID, Markup: strings.TrimSpace(buf.String())}, nil
}
