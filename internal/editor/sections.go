package editor

import "resume-studio/internal/model"

// Contact field identifiers accepted by SetContact.
const (
	ContactEmail    = "email"
	ContactPhone    = "phone"
	ContactGithub   = "github"
	ContactLinkedin = "linkedin"
	ContactLocation = "location"
)

func (e *Editor) SetName(v string) error {
	return e.apply(func(d *model.Document) { d.Name = v })
}

func (e *Editor) SetTitle(v string) error {
	return e.apply(func(d *model.Document) { d.Title = v })
}

// SetContact updates one contact field; empty values store as null. Unknown
// field names are ignored.
func (e *Editor) SetContact(field, v string) error {
	return e.apply(func(d *model.Document) {
		switch field {
		case ContactEmail:
			d.Contacts.Email = nullable(v)
		case ContactPhone:
			d.Contacts.Phone = nullable(v)
		case ContactGithub:
			d.Contacts.Github = nullable(v)
		case ContactLinkedin:
			d.Contacts.Linkedin = nullable(v)
		case ContactLocation:
			d.Contacts.Location = nullable(v)
		}
	})
}

func (e *Editor) SetJobTitle(v string) error {
	return e.apply(func(d *model.Document) { d.Profile.JobTitle = v })
}

func (e *Editor) SetHighestDegree(v string) error {
	return e.apply(func(d *model.Document) { d.Profile.HighestDegree = nullable(v) })
}

func (e *Editor) SetSummary(v string) error {
	return e.apply(func(d *model.Document) { d.Profile.Summary = v })
}

func (e *Editor) AddKeySkill() error {
	return e.apply(func(d *model.Document) {
		d.Profile.KeySkills = append(d.Profile.KeySkills, "")
	})
}

func (e *Editor) SetKeySkill(i int, v string) error {
	return e.apply(func(d *model.Document) {
		if i >= 0 && i < len(d.Profile.KeySkills) {
			d.Profile.KeySkills = setAt(d.Profile.KeySkills, i, v)
		}
	})
}

func (e *Editor) RemoveKeySkill(i int) error {
	return e.apply(func(d *model.Document) {
		d.Profile.KeySkills = removeAt(d.Profile.KeySkills, i)
	})
}

// --- skills sections ---

func (e *Editor) AddSkillSection() error {
	return e.apply(func(d *model.Document) {
		d.Skills.Sections = append(d.Skills.Sections, model.SkillSection{Items: []string{""}})
	})
}

func (e *Editor) RemoveSkillSection(i int) error {
	return e.apply(func(d *model.Document) {
		d.Skills.Sections = removeAt(d.Skills.Sections, i)
	})
}

func (e *Editor) MoveSkillSection(i, dir int) error {
	return e.apply(func(d *model.Document) {
		d.Skills.Sections = moveAt(d.Skills.Sections, i, dir)
	})
}

func (e *Editor) SetSkillSectionLabel(i int, v string) error {
	return e.updateSkillSection(i, func(s *model.SkillSection) { s.Label = v })
}

func (e *Editor) SetSkillSectionNote(i int, v string) error {
	return e.updateSkillSection(i, func(s *model.SkillSection) { s.Note = v })
}

func (e *Editor) AddSkillItem(i int) error {
	return e.updateSkillSection(i, func(s *model.SkillSection) {
		s.Items = append(s.Items, "")
	})
}

func (e *Editor) SetSkillItem(i, j int, v string) error {
	return e.updateSkillSection(i, func(s *model.SkillSection) {
		if j >= 0 && j < len(s.Items) {
			s.Items = setAt(s.Items, j, v)
		}
	})
}

func (e *Editor) RemoveSkillItem(i, j int) error {
	return e.updateSkillSection(i, func(s *model.SkillSection) {
		s.Items = removeAt(s.Items, j)
	})
}

func (e *Editor) updateSkillSection(i int, fn func(*model.SkillSection)) error {
	return e.apply(func(d *model.Document) {
		if i < 0 || i >= len(d.Skills.Sections) {
			return
		}
		sections := append([]model.SkillSection(nil), d.Skills.Sections...)
		sec := sections[i]
		sec.Items = append([]string(nil), sec.Items...)
		fn(&sec)
		sections[i] = sec
		d.Skills.Sections = sections
	})
}

// --- education ---

func (e *Editor) AddEducation() error {
	return e.apply(func(d *model.Document) {
		d.Education = append(d.Education, model.EducationEntry{})
	})
}

func (e *Editor) RemoveEducation(i int) error {
	return e.apply(func(d *model.Document) { d.Education = removeAt(d.Education, i) })
}

func (e *Editor) MoveEducation(i, dir int) error {
	return e.apply(func(d *model.Document) { d.Education = moveAt(d.Education, i, dir) })
}

func (e *Editor) SetEducation(i int, entry model.EducationEntry) error {
	return e.apply(func(d *model.Document) {
		if i >= 0 && i < len(d.Education) {
			d.Education = setAt(d.Education, i, entry)
		}
	})
}

// --- experience ---

func (e *Editor) AddExperience() error {
	return e.apply(func(d *model.Document) {
		d.Experience = append(d.Experience, model.ExperienceEntry{})
	})
}

func (e *Editor) RemoveExperience(i int) error {
	return e.apply(func(d *model.Document) { d.Experience = removeAt(d.Experience, i) })
}

func (e *Editor) MoveExperience(i, dir int) error {
	return e.apply(func(d *model.Document) { d.Experience = moveAt(d.Experience, i, dir) })
}

func (e *Editor) SetExperience(i int, entry model.ExperienceEntry) error {
	return e.apply(func(d *model.Document) {
		if i >= 0 && i < len(d.Experience) {
			d.Experience = setAt(d.Experience, i, entry)
		}
	})
}

// --- references ---

func (e *Editor) AddReference() error {
	return e.apply(func(d *model.Document) {
		d.References = append(d.References, model.Reference{})
	})
}

func (e *Editor) RemoveReference(i int) error {
	return e.apply(func(d *model.Document) { d.References = removeAt(d.References, i) })
}

func (e *Editor) MoveReference(i, dir int) error {
	return e.apply(func(d *model.Document) { d.References = moveAt(d.References, i, dir) })
}

func (e *Editor) SetReference(i int, ref model.Reference) error {
	return e.apply(func(d *model.Document) {
		if i >= 0 && i < len(d.References) {
			d.References = setAt(d.References, i, ref)
		}
	})
}

// --- slice helpers (always copy, never mutate the shared backing array) ---

func setAt[T any](s []T, i int, v T) []T {
	out := append([]T(nil), s...)
	out[i] = v
	return out
}

func removeAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		return s
	}
	out := append([]T(nil), s[:i]...)
	return append(out, s[i+1:]...)
}

func moveAt[T any](s []T, i, dir int) []T {
	j := i + dir
	if i < 0 || i >= len(s) || j < 0 || j >= len(s) {
		return s
	}
	out := append([]T(nil), s...)
	out[i], out[j] = out[j], out[i]
	return out
}
