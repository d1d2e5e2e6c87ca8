package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell/catalog"
)

func endpointWith(t *testing.T, responseSpec map[string]interface{}) *catalog.Endpoint {
	t.Helper()
	c := catalog.Build([]catalog.Source{{Name: "test", Data: catalog.Spec{
		"servers": []interface{}{map[string]interface{}{
			"id":  "srv",
			"url": "https://api.example.com",
			"endpoints": map[string]interface{}{
				"e": map[string]interface{}{"response": responseSpec},
			},
		}},
	}}})
	e, ok := c.Endpoint("srv/e")
	require.True(t, ok)
	return e
}

func TestParseExtractsText(t *testing.T) {
	e := endpointWith(t, map[string]interface{}{
		"paths": map[string]interface{}{
			"text": "choices/0/message/content",
		},
	})
	body := map[string]interface{}{
		"choices": []interface{}{
			map[string]interface{}{
				"message": map[string]interface{}{"content": "hello there"},
			},
		},
	}

	result := Parse(body, e)

	assert.Equal(t, "hello there", result["text"])
	assert.Equal(t, "hello there", result["output"], "default output template is ${text}")
	assert.Equal(t, body, result["response"], "original body rides along")
}

func TestParsePartialFailureKeepsResolvedKeys(t *testing.T) {
	e := endpointWith(t, map[string]interface{}{
		"paths": map[string]interface{}{
			"text":  "result/text",
			"usage": "result/tokens",
		},
	})

	result := Parse(map[string]interface{}{
		"result": map[string]interface{}{"text": "partial"},
	}, e)

	assert.Equal(t, "partial", result["text"], "resolved keys survive a missing sibling")
	errMsg, ok := result["error"].(string)
	require.True(t, ok, "missing key synthesizes an error")
	assert.Contains(t, errMsg, "usage")
	assert.Contains(t, errMsg, "result/tokens")
}

func TestParseServerErrorWins(t *testing.T) {
	e := endpointWith(t, map[string]interface{}{
		"paths": map[string]interface{}{
			"text":  "data/text",
			"error": "error/message",
		},
	})

	result := Parse(map[string]interface{}{
		"error": map[string]interface{}{"message": "invalid api key"},
	}, e)

	assert.Equal(t, "invalid api key", result["error"],
		"a resolved error path is not overwritten by synthesized messages")
	assert.NotContains(t, result, "text")
}

func TestParseNoResponseTemplate(t *testing.T) {
	e := endpointWith(t, nil)

	result := Parse(map[string]interface{}{"anything": true}, e)

	assert.Contains(t, result["error"], "no response template")
	assert.Equal(t, map[string]interface{}{"anything": true}, result["response"],
		"the raw body rides along even without a template")
}

func TestParseLiftsVars(t *testing.T) {
	e := endpointWith(t, map[string]interface{}{
		"paths": map[string]interface{}{
			"text": "completion",
			"vars": "meta",
		},
		"output": "[${model}] ${text}",
	})

	result := Parse(map[string]interface{}{
		"completion": "done",
		"meta": map[string]interface{}{
			"model": "gpt-4",
			"text":  "collides",
			"stats": map[string]interface{}{"tokens": 5},
		},
	}, e)

	assert.Equal(t, "gpt-4", result["model"], "scalar vars lift to top level")
	assert.Equal(t, "collides", result["_text"], "colliding names get an underscore")
	assert.Equal(t, "done", result["text"])
	assert.NotContains(t, result, "stats", "non-scalar vars entries stay nested")
	assert.Equal(t, "[gpt-4] done", result["output"])
}

func TestParseWildcardPathCollectsList(t *testing.T) {
	e := endpointWith(t, map[string]interface{}{
		"paths": map[string]interface{}{
			"list": "data/*[owned_by == 'openai']",
		},
		"templates": map[string]interface{}{"list_item": "${id}"},
	})

	result := Parse(map[string]interface{}{
		"data": []interface{}{
			map[string]interface{}{"id": "gpt-4", "owned_by": "openai"},
			map[string]interface{}{"id": "claude", "owned_by": "anthropic"},
		},
	}, e)

	assert.Equal(t, [][]string{{"gpt-4"}}, result["list"])
}

func TestParseListColumnTemplates(t *testing.T) {
	e := endpointWith(t, map[string]interface{}{
		"paths": map[string]interface{}{"list": "models/*"},
		"templates": map[string]interface{}{
			"list_item": []interface{}{"${id}", "${owned_by}"},
		},
	})

	result := Parse(map[string]interface{}{
		"models": []interface{}{
			map[string]interface{}{"id": "m1", "owned_by": "a"},
			map[string]interface{}{"id": "m2", "owned_by": "b"},
		},
	}, e)

	assert.Equal(t, [][]string{{"m1", "a"}, {"m2", "b"}}, result["list"])
}

func TestParseListWithoutTemplateStringifies(t *testing.T) {
	e := endpointWith(t, map[string]interface{}{
		"paths": map[string]interface{}{"list": "names/*"},
	})

	result := Parse(map[string]interface{}{
		"names": []interface{}{"alpha", "beta"},
	}, e)

	assert.Equal(t, [][]string{{"alpha"}, {"beta"}}, result["list"])
}
