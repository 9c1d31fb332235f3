// Package renderer turns folio reports into markdown documents.
//
// Each report has a view struct built from the engine's results, and a
// markdown template. Numbers are kept in their folio types (Money, Quantity,
// Percent) so that the templates use their own formatting.
package renderer

import (
	"fmt"
	"strings"
	"text/template"
)

// renderTemplate parses src and executes it with data. Failures are
// rendered in place of the document.
func renderTemplate(name, src string, data any) string {
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}
