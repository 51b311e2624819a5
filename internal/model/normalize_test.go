package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_EmptyAndMalformedInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "nil input", raw: ""},
		{name: "json null", raw: "null"},
		{name: "empty object", raw: "{}"},
		{name: "not json", raw: "{{{"},
		{name: "wrong top-level type", raw: `"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Normalize([]byte(tt.raw))

			assert.NotNil(t, doc.Profile.KeySkills)
			assert.NotNil(t, doc.Skills.Sections)
			assert.NotNil(t, doc.Education)
			assert.NotNil(t, doc.Experience)
			assert.NotNil(t, doc.References)
			assert.NotNil(t, doc.CustomSections)
			assert.Len(t, doc.Skills.Sections, 2)
			assert.Equal(t, "Technical", doc.Skills.Sections[0].Label)
		})
	}
}

func TestNormalize_OverlaysScalarsAndMergesNested(t *testing.T) {
	raw := `{
		"name": "Jane Doe",
		"contacts": {"email": "jane@x.com", "phone": ""},
		"profile": {"summary": "5 years backend engineering"}
	}`

	doc := Normalize([]byte(raw))

	assert.Equal(t, "Jane Doe", doc.Name)
	require.NotNil(t, doc.Contacts.Email)
	assert.Equal(t, "jane@x.com", *doc.Contacts.Email)
	// empty input normalizes to null
	assert.Nil(t, doc.Contacts.Phone)
	assert.Nil(t, doc.Contacts.Location)
	assert.Equal(t, "5 years backend engineering", doc.Profile.Summary)
	// untouched nested keys keep defaults
	assert.Equal(t, "", doc.Profile.JobTitle)
	assert.Empty(t, doc.Profile.KeySkills)
}

func TestNormalize_ArrayFieldsReplaceOrFallBack(t *testing.T) {
	raw := `{
		"education": [{"education": "MIT", "date": "2019", "description": null}],
		"experience": "not-an-array",
		"skills": {"sections": [{"label": "Langs", "items": ["Go"]}]},
		"custom_sections": [{"label": "Awards", "items": [{"title": "Best"}]}]
	}`

	doc := Normalize([]byte(raw))

	require.Len(t, doc.Education, 1)
	assert.Equal(t, "MIT", *doc.Education[0].Education)
	// malformed array falls back to the default for that field alone
	require.Len(t, doc.Experience, 1)
	assert.Nil(t, doc.Experience[0].PositionOrCompany)
	require.Len(t, doc.Skills.Sections, 1)
	assert.Equal(t, []string{"Go"}, doc.Skills.Sections[0].Items)
	require.Len(t, doc.CustomSections, 1)
	assert.Equal(t, "Awards", doc.CustomSections[0].Label)
	require.Len(t, doc.CustomSections[0].Items, 1)
	assert.Equal(t, "Best", *doc.CustomSections[0].Items[0].Title)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"{}",
		`{"name":"Jane","custom_sections":[{"label":"X","items":[]}]}`,
		`{"contacts":{"email":"a@b.c"},"education":[],"references":[{"name":"R"}]}`,
	}

	for _, raw := range inputs {
		once := Normalize([]byte(raw))
		onceJSON, err := json.Marshal(once)
		require.NoError(t, err)
		twice := Normalize(onceJSON)
		assert.Equal(t, once, twice, "normalize must be idempotent for %s", raw)
	}
}

func TestNormalizeDocument_BackfillsNilArrays(t *testing.T) {
	d := Document{Name: "Jane"}
	out := NormalizeDocument(d)

	assert.Equal(t, "Jane", out.Name)
	assert.NotNil(t, out.CustomSections)
	assert.NotNil(t, out.References)
}
