// Package studio is the preview/export surface: it watches the persistence
// bridge, re-renders the selected template on every document, order or
// template change, and drives Save & Apply and PDF export against the
// backend.
package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"resume-studio/internal/model"
	"resume-studio/internal/order"
	"resume-studio/internal/render"
	"resume-studio/internal/store"
)

// Backend is the slice of the API the studio needs.
type Backend interface {
	SaveResume(ctx context.Context, doc model.Document) error
	GeneratePDF(ctx context.Context, doc model.Document, templateKey string) ([]byte, error)
}

// Studio holds a transient copy of the document and order; the bridge stays
// authoritative and Save & Apply always re-reads it, because a section
// editor mounted elsewhere is the actual latest writer.
type Studio struct {
	bridge  store.Bridge
	engine  *render.Engine
	backend Backend

	// ExportCleanupDelay bounds how long an exported HTML file outlives the
	// call; long enough for whoever opens it to finish loading.
	ExportCleanupDelay time.Duration

	// OnUpdate, when set before Start, runs after every subscription-driven
	// re-render so a host surface can repaint.
	OnUpdate func()

	mu       sync.Mutex
	doc      model.Document
	order    []string
	selected string
	preview  string
	status   string
	unsub    func()
}

func New(bridge store.Bridge, engine *render.Engine, backend Backend) *Studio {
	s := &Studio{
		bridge:             bridge,
		engine:             engine,
		backend:            backend,
		ExportCleanupDelay: 10 * time.Second,
	}
	if keys := engine.Keys(); len(keys) > 0 {
		s.selected = keys[0]
	}
	s.mu.Lock()
	s.reloadLocked()
	s.renderLocked()
	s.mu.Unlock()
	return s
}

// Start subscribes to bridge changes so external edits refresh the preview.
// Call Close to detach.
func (s *Studio) Start() {
	s.unsub = s.bridge.Subscribe(func(key string) {
		if key != store.KeyDocument && key != store.KeyOrder {
			return
		}
		s.mu.Lock()
		s.reloadLocked()
		s.renderLocked()
		s.mu.Unlock()
		if s.OnUpdate != nil {
			s.OnUpdate()
		}
	})
}

func (s *Studio) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// Templates lists the selectable template keys.
func (s *Studio) Templates() []string { return s.engine.Keys() }

// SelectTemplate switches the active template and re-renders.
func (s *Studio) SelectTemplate(key string) error {
	if !s.engine.Has(key) {
		return fmt.Errorf("%w: %s", render.ErrTemplateNotFound, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = key
	s.renderLocked()
	return nil
}

func (s *Studio) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Preview returns the current full HTML document. Each change replaces the
// whole document; there is no incremental patching.
func (s *Studio) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Status returns the transient status message of the last action.
func (s *Studio) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SaveAndApply re-reads the latest persisted document and order, enforces
// the word guard, normalizes and persists the order, pushes the document to
// the backend, and only then adopts the saved state for the preview.
func (s *Studio) SaveAndApply(ctx context.Context) error {
	rawDoc, _ := s.bridge.Get(store.KeyDocument)
	latest := model.Normalize([]byte(rawDoc))

	if _, err := model.CheckWordLimit(latest); err != nil {
		s.setStatus(fmt.Sprintf("Over %d word limit!", model.MaxWords))
		return err
	}

	var rawOrder []string
	if stored, ok := s.bridge.Get(store.KeyOrder); ok {
		_ = json.Unmarshal([]byte(stored), &rawOrder)
	}
	normalized := order.Normalize(latest, rawOrder)

	ordJSON, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	if err := s.bridge.Set(store.KeyOrder, string(ordJSON)); err != nil {
		return err
	}

	if err := s.backend.SaveResume(ctx, latest); err != nil {
		s.setStatus("Save failed")
		return fmt.Errorf("save resume: %w", err)
	}

	s.mu.Lock()
	s.doc = latest
	s.order = normalized
	s.status = "Saved ✓"
	s.renderLocked()
	s.mu.Unlock()
	return nil
}

// DownloadPDF sends the in-memory document and selected template to the
// backend and streams the returned binary to w.
func (s *Studio) DownloadPDF(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	doc := s.doc
	key := s.selected
	s.mu.Unlock()

	pdf, err := s.backend.GeneratePDF(ctx, doc, key)
	if err != nil {
		s.setStatus("PDF error")
		return fmt.Errorf("generate pdf: %w", err)
	}
	if _, err := w.Write(pdf); err != nil {
		return err
	}
	s.setStatus("Downloaded ✓")
	return nil
}

// ExportHTML writes the current preview to a file in dir and returns its
// path. The file is removed after ExportCleanupDelay so the opener has time
// to load it.
func (s *Studio) ExportHTML(dir string) (string, error) {
	f, err := os.CreateTemp(dir, "resume-preview-*.html")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(s.Preview()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	path := f.Name()
	time.AfterFunc(s.ExportCleanupDelay, func() { os.Remove(path) })
	return path, nil
}

// ViewMode reads the persisted editor/preview toggle, defaulting to editor.
func (s *Studio) ViewMode() string {
	if raw, ok := s.bridge.Get(store.KeyViewMode); ok {
		var mode string
		if json.Unmarshal([]byte(raw), &mode) == nil && (mode == "editor" || mode == "preview") {
			return mode
		}
	}
	return "editor"
}

func (s *Studio) SetViewMode(mode string) error {
	if mode != "editor" && mode != "preview" {
		return fmt.Errorf("unknown view mode %q", mode)
	}
	raw, _ := json.Marshal(mode)
	return s.bridge.Set(store.KeyViewMode, string(raw))
}

// StoreDocument normalizes and writes a document into the bridge, making it
// the state every surface sees next.
func StoreDocument(bridge store.Bridge, doc model.Document) error {
	raw, err := json.Marshal(model.NormalizeDocument(doc))
	if err != nil {
		return err
	}
	return bridge.Set(store.KeyDocument, string(raw))
}

func (s *Studio) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}

func (s *Studio) reloadLocked() {
	raw, _ := s.bridge.Get(store.KeyDocument)
	s.doc = model.Normalize([]byte(raw))

	var stored []string
	if rawOrder, ok := s.bridge.Get(store.KeyOrder); ok {
		_ = json.Unmarshal([]byte(rawOrder), &stored)
	}
	s.order = order.Normalize(s.doc, stored)
}

func (s *Studio) renderLocked() {
	if s.selected == "" {
		return
	}
	html, err := s.engine.Render(s.selected, s.doc, s.order)
	if err != nil {
		// unknown key is the only render-time error; keep the prior preview
		s.status = "Render failed"
		return
	}
	s.preview = html
}
