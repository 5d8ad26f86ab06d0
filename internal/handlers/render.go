package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/quill-blog/server/internal/services"
	"github.com/quill-blog/server/internal/session"
	"github.com/quill-blog/server/types"
)

//go:embed templates static
var assets embed.FS

var templateFuncs = template.FuncMap{
	"avatar": services.AvatarURL,
	// trusted marks HTML that was sanitized before it was stored.
	"trusted": func(s string) template.HTML {
		return template.HTML(s)
	},
	"year": func() int {
		return time.Now().Year()
	},
}

// view is the data every page template receives.
type view struct {
	Title   string
	User    *types.User
	IsAdmin bool
	Flashes []session.Flash
	Page    any
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(assets, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(assets, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		page, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(assets, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[path.Base(file)] = page
	}
	return &renderer{pages: pages}, nil
}

func (rn *renderer) execute(buf *bytes.Buffer, name string, data view) error {
	page, ok := rn.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return page.ExecuteTemplate(buf, "layout.html", data)
}

// render writes the page with the pending flashes plus extra, which are
// shown on this response only.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, page any, extra ...session.Flash) {
	data := view{
		Title: title,
		Page:  page,
	}
	if p, ok := principalFromContext(r.Context()); ok {
		user := p.User
		data.User = &user
		data.IsAdmin = p.IsAdmin
	}
	data.Flashes = append(h.sessions.PopFlashes(w, r), extra...)

	var buf bytes.Buffer
	if err := h.views.execute(&buf, name, data); err != nil {
		h.logger.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
