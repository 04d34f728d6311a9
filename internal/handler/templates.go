package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"yatube/internal/logger"
	"yatube/internal/middleware"
)

//go:embed templates
var templatesFS embed.FS

var pages = []string{
	"index.html",
	"group_list.html",
	"profile.html",
	"post_detail.html",
	"create_post.html",
	"follow.html",
	"signup.html",
	"login.html",
	"logged_out.html",
	"about_author.html",
	"about_tech.html",
	"404.html",
	"500.html",
}

type Templates struct {
	pages map[string]*template.Template
}

// ViewData is what every page template receives; User is nil for anonymous
// visitors.
type ViewData map[string]any

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"uglify":      Uglify,
		"naturaltime": humanize.Time,
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"date": func(t time.Time) string {
			return t.Format("02.01.2006")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"derefID": func(id *int64) int64 {
			if id == nil {
				return 0
			}
			return *id
		},
		"linebreaks": func(text string) template.HTML {
			escaped := template.HTMLEscapeString(text)
			return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
		},
	}
}

func LoadTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(pages))}

	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(templateFuncs()).ParseFS(templatesFS,
			"templates/base.html",
			"templates/includes/*.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора шаблона %s: %w", page, err)
		}
		t.pages[page] = tmpl
	}

	return t, nil
}

// render executes the page into a buffer first, so a template error still
// produces a clean 500 instead of half a page.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page string, data ViewData) {
	tmpl, ok := h.Templates.pages[page]
	if !ok {
		logger.L.Error("template not found", zap.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = ViewData{}
	}
	data["User"] = middleware.UserFromContext(r.Context())
	data["Path"] = r.URL.Path

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		logger.L.Error("template execution failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Uglify lower-cases characters at even positions and upper-cases the odd
// ones: "Привет" -> "пРиВеТ".
func Uglify(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if i%2 == 0 {
			runes[i] = unicode.ToLower(r)
		} else {
			runes[i] = unicode.ToUpper(r)
		}
	}
	return string(runes)
}
