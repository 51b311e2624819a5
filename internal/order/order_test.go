package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-studio/internal/model"
)

func docWithCustoms(n int) model.Document {
	doc := model.Default()
	for i := 0; i < n; i++ {
		doc.CustomSections = append(doc.CustomSections, model.CustomSection{
			Label: "Custom",
			Items: []model.CustomItem{},
		})
	}
	return doc
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		customs int
		raw     []string
		want    []string
	}{
		{
			name:    "nil order yields canonical core order",
			customs: 0,
			raw:     nil,
			want:    []string{"profile", "skills", "education", "experience", "references"},
		},
		{
			name:    "user order preserved, missing keys appended",
			customs: 1,
			raw:     []string{"skills", "profile"},
			want:    []string{"skills", "profile", "education", "experience", "references", "custom:0"},
		},
		{
			name:    "dangling custom keys filtered",
			customs: 1,
			raw:     []string{"profile", "custom:2", "custom:0", "skills", "education", "experience", "references"},
			want:    []string{"profile", "custom:0", "skills", "education", "experience", "references"},
		},
		{
			name:    "duplicates keep first occurrence",
			customs: 0,
			raw:     []string{"skills", "skills", "profile", "profile"},
			want:    []string{"skills", "profile", "education", "experience", "references"},
		},
		{
			name:    "garbage identifiers dropped",
			customs: 2,
			raw:     []string{"banner", "custom:-1", "custom:x", "custom:1"},
			want:    []string{"custom:1", "profile", "skills", "education", "experience", "references", "custom:0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(docWithCustoms(tt.customs), tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_PermutationPlusCompletion(t *testing.T) {
	// For any raw order, the result contains each core key exactly once and
	// each valid custom key exactly once, nothing else.
	raws := [][]string{
		nil,
		{"references", "custom:1", "custom:1", "profile", "junk"},
		{"custom:0", "custom:1", "custom:2", "custom:3"},
		{"experience", "education", "skills", "profile", "references"},
	}
	doc := docWithCustoms(3)

	for _, raw := range raws {
		got := Normalize(doc, raw)
		assert.Len(t, got, 8)
		counts := map[string]int{}
		for _, k := range got {
			counts[k]++
		}
		for _, ck := range CoreKeys {
			assert.Equal(t, 1, counts[ck], "core key %s in %v", ck, got)
		}
		for i := 0; i < 3; i++ {
			assert.Equal(t, 1, counts[CustomKey(i)], "custom key %d in %v", i, got)
		}
	}
}

func TestMove(t *testing.T) {
	keys := []string{"a", "b", "c"}

	assert.Equal(t, []string{"b", "a", "c"}, Move(keys, 0, +1))
	assert.Equal(t, []string{"a", "c", "b"}, Move(keys, 2, -1))
	// out-of-bounds moves are no-ops
	assert.Equal(t, keys, Move(keys, 0, -1))
	assert.Equal(t, keys, Move(keys, 2, +1))
	assert.Equal(t, keys, Move(keys, 5, -1))
	// input slice is never mutated
	moved := Move(keys, 0, +1)
	moved[0] = "x"
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestDeleteCustom(t *testing.T) {
	keys := []string{"custom:2", "profile", "custom:0", "skills", "custom:1"}

	got := DeleteCustom(keys, 1)
	assert.Equal(t, []string{"custom:1", "profile", "custom:0", "skills"}, got)
	assert.NotContains(t, got, "custom:2")

	// deleting the first custom renumbers everything above it
	got = DeleteCustom(keys, 0)
	assert.Equal(t, []string{"custom:1", "profile", "skills", "custom:0"}, got)
}

func TestDeleteCustom_NegativeIndexIsNoOp(t *testing.T) {
	// core keys parse to -1; a negative index must not match them
	keys := []string{"profile", "custom:0", "skills", "custom:1"}

	assert.Equal(t, keys, DeleteCustom(keys, -1))
	assert.Equal(t, keys, DeleteCustom(keys, -7))
}

func TestParseCustomKey(t *testing.T) {
	assert.Equal(t, 0, ParseCustomKey("custom:0"))
	assert.Equal(t, 12, ParseCustomKey("custom:12"))
	assert.Equal(t, -1, ParseCustomKey("profile"))
	assert.Equal(t, -1, ParseCustomKey("custom:"))
	assert.Equal(t, -1, ParseCustomKey("custom:-3"))
}
