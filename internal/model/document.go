package model

// Go models for the canonical resume document shared by the editor, the
// template engine and the backend API.

type Contacts struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Github   *string `json:"github"`
	Linkedin *string `json:"linkedin"`
	Location *string `json:"location"`
}

type Profile struct {
	JobTitle      string   `json:"job_title"`
	HighestDegree *string  `json:"highest_degree"`
	KeySkills     []string `json:"key_skills"`
	Summary       string   `json:"summary"`
}

type SkillSection struct {
	Label string   `json:"label"`
	Items []string `json:"items"`
	Note  string   `json:"note"`
}

type Skills struct {
	Sections []SkillSection `json:"sections"`
}

type EducationEntry struct {
	Education   *string `json:"education"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

type ExperienceEntry struct {
	PositionOrCompany *string `json:"position_or_company"`
	Date              *string `json:"date"`
	Description       *string `json:"description"`
}

type Reference struct {
	Name                *string `json:"name"`
	RelationshipOrTitle *string `json:"relationship_or_title"`
	Contact             *string `json:"contact"`
}

type CustomItem struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

type CustomSection struct {
	Label string       `json:"label"`
	Type  string       `json:"type"`
	Items []CustomItem `json:"items"`
}

type Document struct {
	Name           string          `json:"name"`
	Title          string          `json:"title"`
	Contacts       Contacts        `json:"contacts"`
	Profile        Profile         `json:"profile"`
	Skills         Skills          `json:"skills"`
	Education      []EducationEntry  `json:"education"`
	Experience     []ExperienceEntry `json:"experience"`
	References     []Reference     `json:"references"`
	CustomSections []CustomSection `json:"custom_sections"`
}

// Default returns a freshly constructed document with the canonical empty
// shape: every array present, nullable scalars left null.
func Default() Document {
	return Document{
		Contacts: Contacts{},
		Profile: Profile{
			KeySkills: []string{},
		},
		Skills: Skills{
			Sections: []SkillSection{
				{Label: "Technical", Items: []string{}},
				{Label: "Soft", Items: []string{}},
			},
		},
		Education:      []EducationEntry{{}},
		Experience:     []ExperienceEntry{{}},
		References:     []Reference{},
		CustomSections: []CustomSection{},
	}
}

// String returns a pointer to s, for filling nullable fields.
func String(s string) *string { return &s }
