package api

import (
	"embed"
	"html/template"
	"strconv"
	"strings"
)

// PrintTemplate is the name of the printable recipe page.
const PrintTemplate = "recipe/recipe_print.html"

//go:embed templates
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"quantity": func(q float64) string {
		return strconv.FormatFloat(q, 'f', -1, 64)
	},
	"linebreaks": func(text string) template.HTML {
		var b strings.Builder
		for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
			if para = strings.TrimSpace(para); para == "" {
				continue
			}
			lines := strings.Split(para, "\n")
			for i, line := range lines {
				lines[i] = template.HTMLEscapeString(line)
			}
			b.WriteString("<p>" + strings.Join(lines, "<br>") + "</p>\n")
		}
		return template.HTML(b.String())
	},
}

// LoadTemplates parses the embedded HTML templates. Each file defines its
// templates under their path relative to the templates directory.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*/*.html")
}
