package parser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/structure", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ten years of Go at Acme", body["input"])
		json.NewEncoder(w).Encode(map[string]string{
			"output": `{"name":"Jane Doe","profile":{"job_title":"Engineer"}}`,
		})
	}))
	defer srv.Close()

	c := NewClient()
	c.BaseURL = srv.URL

	doc, err := c.ParseResume(context.Background(), "ten years of Go at Acme")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", doc.Name)
	assert.Equal(t, "Engineer", doc.Profile.JobTitle)
	// normalization filled the untouched shape
	assert.NotNil(t, doc.CustomSections)
}

func TestParseResume_ExtractsWrappedObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"output": "Here is the resume:\n```json\n{\"name\":\"Jane\"}\n```",
		})
	}))
	defer srv.Close()

	c := NewClient()
	c.BaseURL = srv.URL

	doc, err := c.ParseResume(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "Jane", doc.Name)
}

func TestParseResume_NonJSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"output": "sorry, no can do"})
	}))
	defer srv.Close()

	c := NewClient()
	c.BaseURL = srv.URL

	_, err := c.ParseResume(context.Background(), "text")
	assert.ErrorContains(t, err, "non-json")
}

func TestParseResume_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient()
	c.BaseURL = srv.URL

	_, err := c.ParseResume(context.Background(), "text")
	assert.ErrorContains(t, err, "status 502")
}
