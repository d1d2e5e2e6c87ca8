package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptSpecs(t *testing.T, specs map[string]Spec) map[string]*Prompt {
	t.Helper()
	out := map[string]*Prompt{}
	for id, spec := range specs {
		p, err := newPrompt(spec, id)
		require.NoError(t, err)
		out[id] = p
	}
	return out
}

func TestImportInheritsParentFields(t *testing.T) {
	prompts := promptSpecs(t, map[string]Spec{
		"base": {
			"id":     "base",
			"name":   "Base",
			"params": map[string]interface{}{"model": "m1", "temperature": "0.2"},
		},
		"child": {
			"id":     "child",
			"import": map[string]interface{}{"from": "base"},
			"params": map[string]interface{}{"model": "m2"},
		},
	})

	resolveImports(prompts)
	dropFailedImports(prompts)

	child := prompts["child"]
	require.NotNil(t, child)
	assert.Equal(t, "m2", child.Params["model"], "child params win on collision")
	assert.Equal(t, "0.2", child.Params["temperature"], "parent params retained")
	assert.Equal(t, "Base", child.Name, "unlisted fields inherit wholesale")
	assert.NotContains(t, child.spec, "import", "import never survives a merge")
}

func TestImportListFieldsConcatenate(t *testing.T) {
	prompts := promptSpecs(t, map[string]Spec{
		"base": {
			"id":              "base",
			"required_syntax": []interface{}{"python"},
		},
		"child": {
			"id":              "child",
			"import":          map[string]interface{}{"from": "base"},
			"required_syntax": []interface{}{"go"},
		},
	})

	resolveImports(prompts)

	assert.Equal(t, []string{"python", "go"}, prompts["child"].RequiredSyntax)
}

func TestImportPolicyOverride(t *testing.T) {
	prompts := promptSpecs(t, map[string]Spec{
		"base": {
			"id":              "base",
			"required_syntax": []interface{}{"python"},
		},
		"child": {
			"id": "child",
			"import": map[string]interface{}{
				"from":            "base",
				"required_syntax": "replace",
			},
			"required_syntax": []interface{}{"go"},
		},
	})

	resolveImports(prompts)

	assert.Equal(t, []string{"go"}, prompts["child"].RequiredSyntax)
}

func TestImportReplacePolicyForRequiredInputs(t *testing.T) {
	prompts := promptSpecs(t, map[string]Spec{
		"base": {
			"id":              "base",
			"required_inputs": []interface{}{"text", "instruction"},
		},
		"child": {
			"id":              "child",
			"import":          map[string]interface{}{"from": "base"},
			"required_inputs": []interface{}{"text"},
		},
	})

	resolveImports(prompts)

	assert.Equal(t, []string{"text"}, prompts["child"].RequiredInputs)
}

func TestImportChains(t *testing.T) {
	prompts := promptSpecs(t, map[string]Spec{
		"a": {
			"id":     "a",
			"params": map[string]interface{}{"model": "m1"},
		},
		"b": {
			"id":     "b",
			"import": map[string]interface{}{"from": "a"},
			"params": map[string]interface{}{"temperature": "0.5"},
		},
		"c": {
			"id":     "c",
			"import": map[string]interface{}{"from": "b"},
		},
	})

	resolveImports(prompts)
	dropFailedImports(prompts)

	c := prompts["c"]
	require.NotNil(t, c)
	assert.Equal(t, "m1", c.Params["model"])
	assert.Equal(t, "0.5", c.Params["temperature"])
}

func TestImportCycleFails(t *testing.T) {
	prompts := promptSpecs(t, map[string]Spec{
		"a": {"id": "a", "import": map[string]interface{}{"from": "b"}},
		"b": {"id": "b", "import": map[string]interface{}{"from": "a"}},
	})

	resolveImports(prompts)
	dropFailedImports(prompts)

	assert.Empty(t, prompts, "both ends of a cyclic import are dropped")
}

func TestImportMissingParentFails(t *testing.T) {
	prompts := promptSpecs(t, map[string]Spec{
		"orphan": {"id": "orphan", "import": map[string]interface{}{"from": "ghost"}},
		"plain":  {"id": "plain"},
	})

	resolveImports(prompts)
	dropFailedImports(prompts)

	assert.NotContains(t, prompts, "orphan")
	assert.Contains(t, prompts, "plain", "unrelated items survive a failed import")
}

func TestMergeValuesMapOverride(t *testing.T) {
	merged := mergeValues(
		map[string]interface{}{"a": "1", "b": "2"},
		map[string]interface{}{"b": "3", "c": "4"},
	)
	assert.Equal(t, map[string]interface{}{"a": "1", "b": "3", "c": "4"}, merged)
}
