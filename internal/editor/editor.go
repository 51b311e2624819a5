// Package editor implements the per-section editing surface over the
// persistence bridge. Every mutation rebuilds the document as a new value,
// runs the word-count guard, and persists immediately; an over-limit edit is
// kept in memory so nothing vanishes from the screen, but it is not saved.
package editor

import (
	"encoding/json"

	"resume-studio/internal/model"
	"resume-studio/internal/order"
	"resume-studio/internal/store"
)

const (
	statusSaved     = "Saved ✓"
	statusOverLimit = "Over word limit!"
)

// Editor owns a transient copy of the document and order. The bridge stays
// the source of truth: Reload reconciles after external writes.
type Editor struct {
	bridge store.Bridge

	doc       model.Document
	order     []string
	status    string
	overLimit bool
}

// New loads and normalizes the stored document and order. Corrupt or missing
// values fall back to defaults without surfacing an error.
func New(bridge store.Bridge) *Editor {
	e := &Editor{bridge: bridge}
	e.Reload()
	return e
}

// Reload re-reads the bridge, normalizing whatever is stored. Applying the
// same stored value twice produces no observable change.
func (e *Editor) Reload() {
	raw, _ := e.bridge.Get(store.KeyDocument)
	e.doc = model.Normalize([]byte(raw))

	var stored []string
	if rawOrder, ok := e.bridge.Get(store.KeyOrder); ok {
		_ = json.Unmarshal([]byte(rawOrder), &stored)
	}
	e.order = order.Normalize(e.doc, stored)
}

func (e *Editor) Document() model.Document { return e.doc }
func (e *Editor) Order() []string          { return append([]string(nil), e.order...) }
func (e *Editor) Status() string           { return e.status }
func (e *Editor) OverLimit() bool          { return e.overLimit }
func (e *Editor) WordCount() int           { return model.DocumentWords(e.doc) }

// Reset replaces the document and order with fresh defaults and persists
// them. The prior value is not recoverable.
func (e *Editor) Reset() error {
	e.doc = model.Default()
	e.order = order.Default()
	if err := e.persistDocument(); err != nil {
		return err
	}
	return e.persistOrder()
}

// MoveSection swaps the section at position i with its neighbor and persists
// the new order. Out-of-bounds moves are no-ops.
func (e *Editor) MoveSection(i, dir int) error {
	e.order = order.Move(e.order, i, dir)
	return e.persistOrder()
}

// apply mutates a copy of the document, enforces the word guard, and
// persists on success. On an over-limit edit the in-memory document keeps
// the change but the bridge is left untouched.
func (e *Editor) apply(mutate func(*model.Document)) error {
	next := e.doc
	mutate(&next)
	next = model.NormalizeDocument(next)

	e.doc = next
	if _, err := model.CheckWordLimit(next); err != nil {
		e.overLimit = true
		e.status = statusOverLimit
		return err
	}
	e.overLimit = false
	if err := e.persistDocument(); err != nil {
		return err
	}
	e.status = statusSaved
	return nil
}

func (e *Editor) persistDocument() error {
	raw, err := json.Marshal(e.doc)
	if err != nil {
		return err
	}
	return e.bridge.Set(store.KeyDocument, string(raw))
}

func (e *Editor) persistOrder() error {
	raw, err := json.Marshal(e.order)
	if err != nil {
		return err
	}
	return e.bridge.Set(store.KeyOrder, string(raw))
}

// nullable maps empty edits to null the way contact fields are stored.
func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
