// Package renderer turns ledger and rate data into markdown reports.
//
// Each report is a plain struct whose fields are already formatted, built by
// a New* function, and rendered by a Render* function from the templates
// embedded in this package.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var embedded embed.FS

var templates, _ = fs.Sub(embedded, "templates")

// RenderPortfolio renders a portfolio valuation.
func RenderPortfolio(p *Portfolio) string {
	partials := map[string]string{
		"portfolio_title":   "portfolio_title.md",
		"portfolio_wallets": "portfolio_wallets.md",
	}
	return renderTemplate("portfolio", "portfolio.md", partials, p)
}

// RenderTrade renders the receipt of a buy or a sell.
func RenderTrade(t *Trade) string {
	return renderTemplate("trade", "trade.md", nil, t)
}

// RenderQuote renders a single rate and its inverse.
func RenderQuote(q *Quote) string {
	return renderTemplate("quote", "quote.md", nil, q)
}

// RenderRates renders the rate snapshot.
func RenderRates(r *Rates) string {
	partials := map[string]string{
		"rates_title": "rates_title.md",
		"rates_table": "rates_table.md",
	}
	return renderTemplate("rates", "rates.md", partials, r)
}

// RenderHistory renders rate history records.
func RenderHistory(h *History) string {
	return renderTemplate("history", "history.md", nil, h)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
