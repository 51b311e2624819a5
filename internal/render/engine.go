// Package render projects a resume document through a catalog of HTML/CSS
// templates into standalone HTML documents. Templates are embedded at build
// time, paired by base name, and rendered with html/template so every piece
// of user-entered content is escaped by default.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"resume-studio/internal/model"
	"resume-studio/internal/order"
)

//go:embed templates/*.html templates/*.css
var templateFS embed.FS

// ErrTemplateNotFound reports an unknown catalog key.
var ErrTemplateNotFound = errors.New("template not found")

// Template is one renderable catalog entry: an HTML template plus its
// optional stylesheet, keyed by the shared base name.
type Template struct {
	Key  string
	CSS  string
	tmpl *template.Template
}

// Engine holds the parsed template catalog.
type Engine struct {
	templates map[string]*Template
	keys      []string
}

var funcs = template.FuncMap{
	"isCustom":    func(key string) bool { return order.ParseCustomKey(key) >= 0 },
	"customIndex": order.ParseCustomKey,
	"urlLabel":    urlLabel,
}

// NewEngine enumerates the embedded catalog once, pairing each HTML template
// with the CSS file of the same base name. Keys are sorted for deterministic
// listing.
func NewEngine() (*Engine, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, err
	}

	cssByKey := map[string]string{}
	for _, entry := range entries {
		if path.Ext(entry.Name()) != ".css" {
			continue
		}
		b, err := fs.ReadFile(templateFS, "templates/"+entry.Name())
		if err != nil {
			return nil, err
		}
		cssByKey[strings.TrimSuffix(entry.Name(), ".css")] = string(b)
	}

	e := &Engine{templates: map[string]*Template{}}
	for _, entry := range entries {
		if path.Ext(entry.Name()) != ".html" {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), ".html")
		src, err := fs.ReadFile(templateFS, "templates/"+entry.Name())
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(key).Funcs(funcs).Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", key, err)
		}
		e.templates[key] = &Template{Key: key, CSS: cssByKey[key], tmpl: tmpl}
		e.keys = append(e.keys, key)
	}
	sort.Strings(e.keys)
	return e, nil
}

// Keys lists the catalog in sorted order.
func (e *Engine) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Has reports whether key names a catalog entry.
func (e *Engine) Has(key string) bool {
	_, ok := e.templates[key]
	return ok
}

// Render binds the document and order into the named template and returns a
// complete standalone HTML document with the template's CSS inlined. A
// template-evaluation failure never escapes: the body is replaced with a
// visible error block while the head and styles still render.
func (e *Engine) Render(key string, doc model.Document, ord []string) (string, error) {
	t, ok := e.templates[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
	}

	ctx, err := bindContext(doc, ord)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	body := ""
	if err := t.tmpl.Execute(&buf, ctx); err != nil {
		body = fmt.Sprintf(
			`<pre style="color:#b91c1c;background:#fee2e2;padding:12px;border-radius:8px;">Render error: %s</pre>`,
			template.HTMLEscapeString(err.Error()))
	} else {
		body = buf.String()
	}

	return wrapDocument(t, body), nil
}

// bindContext exposes the document under its wire-format keys so templates
// address fields the same way the stored JSON spells them, plus the order
// array under "order".
func bindContext(doc model.Document, ord []string) (map[string]interface{}, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	ctx := map[string]interface{}{}
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, err
	}
	if ord == nil {
		ord = order.Normalize(doc, nil)
	}
	ctx["order"] = ord
	return ctx, nil
}

func wrapDocument(t *Template, body string) string {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head>\n")
	b.WriteString(`<meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/>` + "\n")
	b.WriteString("<title>" + template.HTMLEscapeString(t.Key) + "</title>\n")
	if t.CSS != "" {
		b.WriteString(`<style id="template-css">` + t.CSS + "</style>\n")
	}
	b.WriteString("<style>html,body{height:100%}body{margin:0;background:#fff}</style>\n")
	b.WriteString("</head><body>")
	b.WriteString(body)
	b.WriteString("</body></html>")
	return b.String()
}

// urlLabel shortens a link to a tidy display label: the eTLD+1 of its host
// when it parses as a URL, the raw value otherwise.
func urlLabel(v interface{}) string {
	s, _ := v.(string)
	if s == "" {
		return ""
	}
	candidate := s
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return s
	}
	host := parsed.Hostname()
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}
