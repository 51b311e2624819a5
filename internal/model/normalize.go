package model

import (
	"encoding/json"
	"strings"
)

// partial mirrors Document with every field optional so that Normalize can
// tell "absent" apart from "present but empty". Array fields stay raw: a
// malformed array falls back to the default for that field alone instead of
// discarding the whole input.
type partial struct {
	Name     *string          `json:"name"`
	Title    *string          `json:"title"`
	Contacts *partialContacts `json:"contacts"`
	Profile  *partialProfile  `json:"profile"`
	Skills   *partialSkills   `json:"skills"`

	Education      json.RawMessage `json:"education"`
	Experience     json.RawMessage `json:"experience"`
	References     json.RawMessage `json:"references"`
	CustomSections json.RawMessage `json:"custom_sections"`
}

type partialContacts struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Github   *string `json:"github"`
	Linkedin *string `json:"linkedin"`
	Location *string `json:"location"`
}

type partialProfile struct {
	JobTitle      *string         `json:"job_title"`
	HighestDegree *string         `json:"highest_degree"`
	KeySkills     json.RawMessage `json:"key_skills"`
	Summary       *string         `json:"summary"`
}

type partialSkills struct {
	Sections json.RawMessage `json:"sections"`
}

// Normalize repairs an arbitrary serialized value (possibly malformed,
// partial or legacy-shaped) into a document satisfying the canonical shape:
// every array non-nil, every nested object complete. It is idempotent:
// normalizing a normalized document changes nothing.
func Normalize(raw []byte) Document {
	doc := Default()

	var in partial
	if len(raw) == 0 || json.Unmarshal(raw, &in) != nil {
		return doc
	}

	if in.Name != nil {
		doc.Name = *in.Name
	}
	if in.Title != nil {
		doc.Title = *in.Title
	}

	if c := in.Contacts; c != nil {
		doc.Contacts.Email = nullableString(c.Email)
		doc.Contacts.Phone = nullableString(c.Phone)
		doc.Contacts.Github = nullableString(c.Github)
		doc.Contacts.Linkedin = nullableString(c.Linkedin)
		doc.Contacts.Location = nullableString(c.Location)
	}

	if p := in.Profile; p != nil {
		if p.JobTitle != nil {
			doc.Profile.JobTitle = *p.JobTitle
		}
		doc.Profile.HighestDegree = nullableString(p.HighestDegree)
		if p.Summary != nil {
			doc.Profile.Summary = *p.Summary
		}
		doc.Profile.KeySkills = arrayOr(p.KeySkills, doc.Profile.KeySkills)
	}

	if s := in.Skills; s != nil {
		doc.Skills.Sections = arrayOr(s.Sections, doc.Skills.Sections)
	}
	for i := range doc.Skills.Sections {
		if doc.Skills.Sections[i].Items == nil {
			doc.Skills.Sections[i].Items = []string{}
		}
	}

	doc.Education = arrayOr(in.Education, doc.Education)
	doc.Experience = arrayOr(in.Experience, doc.Experience)
	doc.References = arrayOr(in.References, doc.References)
	doc.CustomSections = arrayOr(in.CustomSections, []CustomSection{})
	for i := range doc.CustomSections {
		if doc.CustomSections[i].Items == nil {
			doc.CustomSections[i].Items = []CustomItem{}
		}
	}

	return doc
}

// NormalizeDocument re-runs normalization over an in-memory document,
// backfilling any nil array a caller may have left behind.
func NormalizeDocument(d Document) Document {
	raw, err := json.Marshal(d)
	if err != nil {
		return Default()
	}
	return Normalize(raw)
}

// nullableString maps absent and empty inputs to null.
func nullableString(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// arrayOr decodes raw into a slice of T, falling back when raw is absent,
// not an array, or contains elements of the wrong shape.
func arrayOr[T any](raw json.RawMessage, fallback []T) []T {
	if len(raw) == 0 {
		return fallback
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return fallback
	}
	return out
}
