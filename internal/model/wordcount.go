package model

import (
	"encoding/json"
	"errors"
	"strings"
)

// MaxWords is the hard cap on the total word count of a document. Edits that
// would exceed it are kept on screen but never persisted.
const MaxWords = 10000

// ErrOverWordLimit rejects a persist attempt whose document exceeds MaxWords.
var ErrOverWordLimit = errors.New("document exceeds word limit")

// CountWords walks a decoded JSON value and counts whitespace-separated
// words: strings contribute their token count, arrays and objects the sum of
// their children, everything else zero.
func CountWords(v interface{}) int {
	switch t := v.(type) {
	case string:
		return len(strings.Fields(t))
	case []interface{}:
		n := 0
		for _, item := range t {
			n += CountWords(item)
		}
		return n
	case map[string]interface{}:
		n := 0
		for _, val := range t {
			n += CountWords(val)
		}
		return n
	default:
		return 0
	}
}

// DocumentWords counts every word of text in the document.
func DocumentWords(d Document) int {
	raw, err := json.Marshal(d)
	if err != nil {
		return 0
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return CountWords(v)
}

// CheckWordLimit returns the document's word count and ErrOverWordLimit when
// it exceeds MaxWords. It runs on every persist attempt, not just explicit
// saves.
func CheckWordLimit(d Document) (int, error) {
	n := DocumentWords(d)
	if n > MaxWords {
		return n, ErrOverWordLimit
	}
	return n, nil
}
