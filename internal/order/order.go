// Package order maintains the ordered list of section identifiers that
// controls display and render sequence: the five fixed core keys plus
// dynamically-indexed custom-section keys ("custom:0", "custom:1", ...).
package order

import (
	"fmt"
	"strconv"
	"strings"

	"resume-studio/internal/model"
)

// CoreKeys is the canonical order of the fixed resume sections.
var CoreKeys = []string{"profile", "skills", "education", "experience", "references"}

const customPrefix = "custom:"

// CustomKey builds the identifier for the custom section at index i.
func CustomKey(i int) string {
	return fmt.Sprintf("%s%d", customPrefix, i)
}

// ParseCustomKey returns the index of a custom key, or -1 when k is not one.
func ParseCustomKey(k string) int {
	if !strings.HasPrefix(k, customPrefix) {
		return -1
	}
	n, err := strconv.Atoi(k[len(customPrefix):])
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func isCore(k string) bool {
	for _, ck := range CoreKeys {
		if ck == k {
			return true
		}
	}
	return false
}

// Default returns the canonical default order: core keys only. Custom keys
// are appended by Normalize as custom sections appear.
func Default() []string {
	out := make([]string, len(CoreKeys))
	copy(out, CoreKeys)
	return out
}

// Normalize produces the canonical order for doc from a raw stored order:
// invalid identifiers are filtered, duplicates dropped keeping the first
// occurrence, missing core keys appended in canonical order, and missing
// custom keys appended ascending. The result contains exactly the valid
// identifier set for doc. It must be re-run whenever the number of custom
// sections changes.
func Normalize(doc model.Document, raw []string) []string {
	customs := len(doc.CustomSections)

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(CoreKeys)+customs)
	for _, k := range raw {
		if seen[k] {
			continue
		}
		if idx := ParseCustomKey(k); isCore(k) || (idx >= 0 && idx < customs) {
			seen[k] = true
			out = append(out, k)
		}
	}

	for _, ck := range CoreKeys {
		if !seen[ck] {
			out = append(out, ck)
		}
	}
	for i := 0; i < customs; i++ {
		if k := CustomKey(i); !seen[k] {
			out = append(out, k)
		}
	}
	return out
}

// Move swaps the identifier at position i with its neighbor: dir -1 moves it
// up, +1 down. Out-of-bounds moves are no-ops. Returns a new slice.
func Move(keys []string, i, dir int) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	j := i + dir
	if i < 0 || i >= len(out) || j < 0 || j >= len(out) {
		return out
	}
	out[i], out[j] = out[j], out[i]
	return out
}

// DeleteCustom rewrites an order after the custom section at index k was
// removed from the document: "custom:k" is dropped and every "custom:j" with
// j > k is renumbered to j-1. A negative k returns the order unchanged;
// ParseCustomKey maps core keys to -1, so matching it would drop them all.
func DeleteCustom(keys []string, k int) []string {
	out := make([]string, 0, len(keys))
	if k < 0 {
		return append(out, keys...)
	}
	for _, key := range keys {
		idx := ParseCustomKey(key)
		switch {
		case idx == k:
			continue
		case idx > k:
			out = append(out, CustomKey(idx-1))
		default:
			out = append(out, key)
		}
	}
	return out
}
