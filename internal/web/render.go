package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/BerylCAtieno/churn-dashboard/internal/risk"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{
	"dashboard.html",
	"wizard.html",
	"customer.html",
	"brief.html",
	"notfound.html",
}

var funcs = template.FuncMap{
	"percent": func(p float64) string {
		return fmt.Sprintf("%.1f%%", p*100)
	},
	"money": func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	},
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"severity": func(segment string) string {
		return string(risk.SeverityFor(segment))
	},
	"inc":        func(i int) int { return i + 1 },
	"lower":      strings.ToLower,
	"pathescape": url.PathEscape,
}

// pages renders each page inside the shared layout. Every page is parsed
// as its own set so they can all define "content".
type pages map[string]*template.Template

func loadPages() (pages, error) {
	out := make(pages, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func (p pages) Instance(name string, data any) render.Render {
	return render.HTML{Template: p[name], Name: "layout", Data: data}
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
