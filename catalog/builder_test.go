package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell/errors"
)

func testServerData(creds interface{}) Spec {
	return Spec{
		"default_servers": []interface{}{
			map[string]interface{}{
				"id":                   "openai",
				"name":                 "OpenAI",
				"url":                  "https://api.openai.com",
				"required_credentials": []interface{}{"api_key"},
				"headers": map[string]interface{}{
					"Authorization": "Bearer ${api_key}",
					"Content-Type":  "application/json",
				},
				"endpoints": map[string]interface{}{
					"chat": map[string]interface{}{
						"name":     "Chat",
						"resource": "/v1/chat/completions",
						"valid_params": map[string]interface{}{
							"model": "string", "messages": "list",
						},
					},
				},
			},
		},
		"credentials": creds,
	}
}

func TestBuildResolvesCredentialsIntoHeaders(t *testing.T) {
	c := Build([]Source{{
		Name: "test",
		Data: testServerData(map[string]interface{}{"api_key": "sk-123"}),
	}})

	e, ok := c.Endpoint("openai/chat")
	require.True(t, ok)
	assert.Equal(t, "Bearer sk-123", e.Headers["Authorization"])
	assert.Equal(t, "https://api.openai.com", e.URL)
	assert.Equal(t, "openai", e.SID)
	assert.Equal(t, DefaultTimeout, e.Timeout)
}

func TestBuildDismissesServersWithoutCredentials(t *testing.T) {
	c := Build([]Source{{Name: "test", Data: testServerData(nil)}})

	assert.Empty(t, c.Servers)
	assert.Empty(t, c.Endpoints)
}

func TestMissingCredentialError(t *testing.T) {
	s, err := newServer(Spec{
		"id":                   "openai",
		"url":                  "https://api.openai.com",
		"required_credentials": "api_key",
	})
	require.NoError(t, err)

	err = missingCredential(s, nil)
	assert.True(t, errors.Is(err, errors.ErrCredential))
	assert.Contains(t, err.Error(), `credential "api_key"`)

	err = missingCredential(s, Spec{"api_key": "sk-x"})
	assert.NoError(t, err)
}

func TestBuildScopesCredentialsPerServer(t *testing.T) {
	data := testServerData(map[string]interface{}{
		"api_key": "global-key",
		"openai":  map[string]interface{}{"api_key": "scoped-key"},
	})

	c := Build([]Source{{Name: "test", Data: data}})

	e, ok := c.Endpoint("openai/chat")
	require.True(t, ok)
	assert.Equal(t, "Bearer scoped-key", e.Headers["Authorization"],
		"per-server credential wins over the flat entry")
}

func TestBuildLaterSourceOverridesItem(t *testing.T) {
	packaged := testServerData(map[string]interface{}{"api_key": "k"})
	user := Spec{
		"servers": []interface{}{
			map[string]interface{}{
				"id":                   "openai",
				"name":                 "My OpenAI",
				"url":                  "https://proxy.internal",
				"required_credentials": []interface{}{"api_key"},
				"endpoints": map[string]interface{}{
					"chat": map[string]interface{}{"resource": "/v1/chat"},
				},
			},
		},
	}

	c := Build([]Source{
		{Name: "packaged", Data: packaged},
		{Name: "user", Data: user},
	})

	s, ok := c.Servers["openai"]
	require.True(t, ok)
	assert.Equal(t, "My OpenAI", s.Name)
	assert.Equal(t, "https://proxy.internal", s.URL)
}

func TestBuildSkipsInvalidItems(t *testing.T) {
	data := Spec{
		"prompts": []interface{}{
			map[string]interface{}{"id": "good"},
			map[string]interface{}{"id": "bad", "visible": "not-a-bool"},
		},
	}

	c := Build([]Source{{Name: "test", Data: data}})

	assert.Contains(t, c.Prompts, "good")
	assert.NotContains(t, c.Prompts, "bad")
}

func TestBuildSynthesizesDefaultPromptVars(t *testing.T) {
	c := Build([]Source{{Name: "test", Data: Spec{
		"prompts": []interface{}{
			map[string]interface{}{"id": "bare"},
			map[string]interface{}{
				"id":              "styled",
				"required_inputs": []interface{}{"text", "style"},
			},
		},
	}}})

	// one passthrough variable per required input
	p, ok := c.Prompt("styled")
	require.True(t, ok)
	assert.Equal(t, []Variable{
		{Name: "text", Template: "${text}"},
		{Name: "style", Template: "${style}"},
	}, p.Variables)

	// no required inputs means no synthesized variables
	p, ok = c.Prompt("bare")
	require.True(t, ok)
	assert.Empty(t, p.Variables)
	assert.Empty(t, p.RequiredInputs)
}

func TestBuildImportedServerKeepsBaseAlias(t *testing.T) {
	data := Spec{
		"servers": []interface{}{
			map[string]interface{}{
				"id":  "base",
				"url": "https://api.example.com",
				"endpoints": map[string]interface{}{
					"run": map[string]interface{}{"resource": "/run"},
				},
			},
			map[string]interface{}{
				"id":     "mirror",
				"import": map[string]interface{}{"from": "base"},
				"url":    "https://mirror.example.com",
			},
		},
	}

	c := Build([]Source{{Name: "test", Data: data}})

	e, ok := c.Endpoint("mirror/run")
	require.True(t, ok)
	assert.Equal(t, "https://mirror.example.com", e.URL)
	assert.Equal(t, "base/run", e.baseKey())
}

func TestCollectionEntriesObjectForm(t *testing.T) {
	entries := collectionEntries(Spec{
		"prompts": map[string]interface{}{
			"b": map[string]interface{}{"name": "B"},
			"a": map[string]interface{}{"name": "A"},
		},
	}, "prompts", "test")

	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ident, "object collections sort by key")
	assert.Equal(t, "a", entries[0].spec["id"], "ident is injected as id")
}
