package editor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-studio/internal/model"
	"resume-studio/internal/store"
)

func storedDoc(t *testing.T, bridge store.Bridge) model.Document {
	t.Helper()
	raw, ok := bridge.Get(store.KeyDocument)
	require.True(t, ok)
	return model.Normalize([]byte(raw))
}

func storedOrder(t *testing.T, bridge store.Bridge) []string {
	t.Helper()
	raw, ok := bridge.Get(store.KeyOrder)
	require.True(t, ok)
	var keys []string
	require.NoError(t, json.Unmarshal([]byte(raw), &keys))
	return keys
}

func TestNew_RecoversFromCorruptStorage(t *testing.T) {
	bridge := store.NewMemStore()
	bridge.Set(store.KeyDocument, "{not json")
	bridge.Set(store.KeyOrder, "also not json")

	e := New(bridge)

	assert.Equal(t, model.Default(), e.Document())
	assert.Equal(t, []string{"profile", "skills", "education", "experience", "references"}, e.Order())
}

func TestEdits_PersistImmediately(t *testing.T) {
	bridge := store.NewMemStore()
	e := New(bridge)

	require.NoError(t, e.SetName("Jane Doe"))
	require.NoError(t, e.SetContact(ContactEmail, "jane@x.com"))
	require.NoError(t, e.SetContact(ContactPhone, ""))
	require.NoError(t, e.SetSummary("Backend engineer"))

	got := storedDoc(t, bridge)
	assert.Equal(t, "Jane Doe", got.Name)
	require.NotNil(t, got.Contacts.Email)
	assert.Equal(t, "jane@x.com", *got.Contacts.Email)
	assert.Nil(t, got.Contacts.Phone)
	assert.Equal(t, "Backend engineer", got.Profile.Summary)
	assert.Equal(t, "Saved ✓", e.Status())
}

func TestWordGuard_BlocksPersistKeepsEdit(t *testing.T) {
	bridge := store.NewMemStore()
	e := New(bridge)
	require.NoError(t, e.SetName("Jane"))
	before, _ := bridge.Get(store.KeyDocument)

	huge := strings.TrimSpace(strings.Repeat("word ", model.MaxWords+1))
	err := e.SetSummary(huge)
	assert.ErrorIs(t, err, model.ErrOverWordLimit)

	// the edit stays visible in memory
	assert.Equal(t, huge, e.Document().Profile.Summary)
	assert.True(t, e.OverLimit())
	assert.Equal(t, "Over word limit!", e.Status())

	// but the persisted document is unchanged
	after, _ := bridge.Get(store.KeyDocument)
	assert.Equal(t, before, after)

	// shrinking the document re-enables saving
	require.NoError(t, e.SetSummary("short again"))
	assert.False(t, e.OverLimit())
	assert.Equal(t, "short again", storedDoc(t, bridge).Profile.Summary)
}

func TestCustomSections_AddReorderDelete(t *testing.T) {
	bridge := store.NewMemStore()
	e := New(bridge)

	require.NoError(t, e.AddCustomSection())
	assert.Equal(t, []string{"profile", "skills", "education", "experience", "references", "custom:0"}, e.Order())

	// move custom:0 to the front, one step at a time
	for i := 5; i > 0; i-- {
		require.NoError(t, e.MoveSection(i, -1))
	}
	assert.Equal(t, "custom:0", e.Order()[0])
	assert.Equal(t, "custom:0", storedOrder(t, bridge)[0])

	require.NoError(t, e.AddCustomSection())
	require.NoError(t, e.AddCustomSection())
	require.NoError(t, e.SetCustomLabel(1, "Awards"))
	require.NoError(t, e.SetCustomLabel(2, "Talks"))

	// deleting index 1 renumbers custom:2 -> custom:1
	require.NoError(t, e.DeleteCustomSection(1))
	doc := storedDoc(t, bridge)
	require.Len(t, doc.CustomSections, 2)
	assert.Equal(t, "Talks", doc.CustomSections[1].Label)
	keys := storedOrder(t, bridge)
	assert.Contains(t, keys, "custom:0")
	assert.Contains(t, keys, "custom:1")
	assert.NotContains(t, keys, "custom:2")
}

func TestRowOps(t *testing.T) {
	bridge := store.NewMemStore()
	e := New(bridge)

	require.NoError(t, e.AddExperience())
	require.NoError(t, e.SetExperience(1, model.ExperienceEntry{
		PositionOrCompany: model.String("Acme"),
		Date:              model.String("2020-2023"),
	}))
	require.NoError(t, e.MoveExperience(1, -1))
	doc := e.Document()
	require.Len(t, doc.Experience, 2)
	assert.Equal(t, "Acme", *doc.Experience[0].PositionOrCompany)

	require.NoError(t, e.RemoveExperience(1))
	assert.Len(t, e.Document().Experience, 1)

	// out-of-range operations are no-ops, not panics
	require.NoError(t, e.RemoveExperience(42))
	require.NoError(t, e.MoveExperience(0, -1))

	require.NoError(t, e.AddSkillSection())
	require.NoError(t, e.SetSkillSectionLabel(2, "Languages"))
	require.NoError(t, e.AddSkillItem(2))
	require.NoError(t, e.SetSkillItem(2, 1, "Go"))
	sec := e.Document().Skills.Sections[2]
	assert.Equal(t, "Languages", sec.Label)
	assert.Equal(t, []string{"", "Go"}, sec.Items)
}

func TestReset(t *testing.T) {
	bridge := store.NewMemStore()
	e := New(bridge)
	require.NoError(t, e.SetName("Jane"))
	require.NoError(t, e.AddCustomSection())

	require.NoError(t, e.Reset())

	assert.Equal(t, model.Default(), e.Document())
	assert.Equal(t, []string{"profile", "skills", "education", "experience", "references"}, storedOrder(t, bridge))
	assert.Equal(t, "", storedDoc(t, bridge).Name)
}

func TestReload_ReconcilesExternalWrite(t *testing.T) {
	bridge := store.NewMemStore()
	e := New(bridge)

	// another surface writes the bridge directly
	bridge.Set(store.KeyDocument, `{"name":"External","custom_sections":[{"label":"X","items":[]}]}`)
	bridge.Set(store.KeyOrder, `["custom:0","profile"]`)

	e.Reload()
	assert.Equal(t, "External", e.Document().Name)
	assert.Equal(t, []string{"custom:0", "profile", "skills", "education", "experience", "references"}, e.Order())
}
