package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// DefaultDatastarURL is the client bundle the page shells load.
const DefaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-beta.11/bundles/datastar.js"

// Pages renders the static page shells once and serves them from memory.
type Pages struct {
	index      string
	calculator string
	styles     []byte
}

type pageData struct {
	DatastarURL string
}

// NewPages renders every page up front so handlers never fail at request time.
func NewPages(datastarURL string) (*Pages, error) {
	if datastarURL == "" {
		datastarURL = DefaultDatastarURL
	}
	tmpl, err := template.ParseFS(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	data := pageData{DatastarURL: datastarURL}

	p := &Pages{}
	if p.index, err = execPage(tmpl, "index.html", data); err != nil {
		return nil, err
	}
	if p.calculator, err = execPage(tmpl, "calculator.html", data); err != nil {
		return nil, err
	}
	if p.styles, err = templateFS.ReadFile("templates/pages/styles.css"); err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	return p, nil
}

func (p *Pages) Index() string      { return p.index }
func (p *Pages) Calculator() string { return p.calculator }
func (p *Pages) Stylesheet() []byte { return p.styles }

func execPage(tmpl *template.Template, name string, data pageData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render page %s: %w", name, err)
	}
	return buf.String(), nil
}
