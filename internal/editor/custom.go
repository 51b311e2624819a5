package editor

import (
	"resume-studio/internal/model"
	"resume-studio/internal/order"
)

// AddCustomSection appends a new custom section and registers its key at the
// end of the order.
func (e *Editor) AddCustomSection() error {
	if err := e.apply(func(d *model.Document) {
		d.CustomSections = append(d.CustomSections, model.CustomSection{
			Label: "Custom",
			Items: []model.CustomItem{},
		})
	}); err != nil {
		return err
	}
	e.order = order.Normalize(e.doc, e.order)
	return e.persistOrder()
}

// DeleteCustomSection removes the custom section at index k and rewrites the
// order: custom:k disappears and every higher custom index shifts down one.
func (e *Editor) DeleteCustomSection(k int) error {
	if k < 0 || k >= len(e.doc.CustomSections) {
		return nil
	}
	if err := e.apply(func(d *model.Document) {
		d.CustomSections = removeAt(d.CustomSections, k)
	}); err != nil {
		return err
	}
	e.order = order.Normalize(e.doc, order.DeleteCustom(e.order, k))
	return e.persistOrder()
}

func (e *Editor) SetCustomLabel(k int, v string) error {
	return e.updateCustom(k, func(s *model.CustomSection) { s.Label = v })
}

func (e *Editor) SetCustomType(k int, v string) error {
	return e.updateCustom(k, func(s *model.CustomSection) { s.Type = v })
}

func (e *Editor) AddCustomItem(k int) error {
	return e.updateCustom(k, func(s *model.CustomSection) {
		s.Items = append(s.Items, model.CustomItem{})
	})
}

func (e *Editor) SetCustomItem(k, j int, item model.CustomItem) error {
	return e.updateCustom(k, func(s *model.CustomSection) {
		if j >= 0 && j < len(s.Items) {
			s.Items = setAt(s.Items, j, item)
		}
	})
}

func (e *Editor) RemoveCustomItem(k, j int) error {
	return e.updateCustom(k, func(s *model.CustomSection) {
		s.Items = removeAt(s.Items, j)
	})
}

func (e *Editor) updateCustom(k int, fn func(*model.CustomSection)) error {
	return e.apply(func(d *model.Document) {
		if k < 0 || k >= len(d.CustomSections) {
			return
		}
		sections := append([]model.CustomSection(nil), d.CustomSections...)
		sec := sections[k]
		sec.Items = append([]model.CustomItem(nil), sec.Items...)
		fn(&sec)
		sections[k] = sec
		d.CustomSections = sections
	})
}
