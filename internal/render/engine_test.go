package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-studio/internal/model"
	"resume-studio/internal/order"
)

func sampleDoc() model.Document {
	doc := model.Default()
	doc.Name = "Jane Doe"
	doc.Title = "Backend Engineer"
	doc.Contacts.Email = model.String("jane@x.com")
	doc.Contacts.Github = model.String("https://github.com/janedoe")
	doc.Profile.Summary = "5 years backend engineering"
	doc.Profile.KeySkills = []string{"Go", "Postgres"}
	doc.Experience = []model.ExperienceEntry{{
		PositionOrCompany: model.String("Acme Corp"),
		Date:              model.String("2020-2025"),
		Description:       model.String("Built things"),
	}}
	return doc
}

func TestNewEngine_CatalogSortedAndPaired(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	keys := e.Keys()
	assert.Equal(t, []string{"harward", "modern", "plain"}, keys)
	assert.True(t, e.Has("harward"))
	assert.False(t, e.Has("nope"))
}

func TestRender_ProducesStandaloneDocument(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	doc := sampleDoc()
	ord := order.Normalize(doc, nil)

	for _, key := range e.Keys() {
		html, err := e.Render(key, doc, ord)
		require.NoError(t, err, key)

		assert.True(t, strings.HasPrefix(html, "<!doctype html>"), key)
		assert.Contains(t, html, "</body></html>", key)
		assert.Contains(t, html, "Jane Doe", key)
		assert.Contains(t, html, "jane@x.com", key)
		assert.Contains(t, html, "Acme Corp", key)
	}

	// CSS is inlined for templates that carry one; plain has none
	html, err := e.Render("harward", doc, ord)
	require.NoError(t, err)
	assert.Contains(t, html, `<style id="template-css">`)
	html, err = e.Render("plain", doc, ord)
	require.NoError(t, err)
	assert.NotContains(t, html, `<style id="template-css">`)
}

func TestRender_EscapesUserContent(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	doc := sampleDoc()
	doc.Name = `Jane <script>alert("x")</script> Doe`
	doc.Profile.Summary = "a < b & c"

	html, err := e.Render("harward", doc, order.Normalize(doc, nil))
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "a &lt; b &amp; c")
}

func TestRender_OrderControlsSectionSequence(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	doc := sampleDoc()
	doc.CustomSections = []model.CustomSection{{
		Label: "Awards",
		Items: []model.CustomItem{{Title: model.String("Gold Star")}},
	}}

	ord := order.Normalize(doc, []string{"custom:0", "experience"})
	html, err := e.Render("harward", doc, ord)
	require.NoError(t, err)

	awards := strings.Index(html, "Awards")
	exp := strings.Index(html, "Acme Corp")
	require.Greater(t, awards, 0)
	require.Greater(t, exp, 0)
	assert.Less(t, awards, exp, "custom section ordered before experience must render first")
	assert.Contains(t, html, "Gold Star")
}

func TestRender_UnknownTemplate(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	_, err = e.Render("missing", sampleDoc(), nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRender_EvalFailureYieldsInlineErrorBlock(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	// a dangling custom key makes the index lookup fail at evaluation time
	doc := sampleDoc()
	html, err := e.Render("harward", doc, []string{"custom:5"})
	require.NoError(t, err)

	assert.Contains(t, html, "Render error:")
	// head and styles still render around the error block
	assert.Contains(t, html, `<style id="template-css">`)
	assert.Contains(t, html, "</body></html>")
}

func TestURLLabel(t *testing.T) {
	assert.Equal(t, "github.com", urlLabel("https://github.com/janedoe"))
	assert.Equal(t, "github.com", urlLabel("www.github.com/janedoe"))
	assert.Equal(t, "janedoe", urlLabel("janedoe"))
	assert.Equal(t, "", urlLabel(nil))
}
