package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell/catalog"
	"github.com/inkwell-ai/inkwell/errors"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.Build([]catalog.Source{{Name: "test", Data: catalog.Spec{
		"servers": []interface{}{map[string]interface{}{
			"id":  "srv",
			"url": "https://api.example.com",
			"endpoints": map[string]interface{}{
				"complete": map[string]interface{}{
					"resource":     "/complete",
					"valid_params": map[string]interface{}{"prompt": ""},
					"request":      map[string]interface{}{"prompt": "${text}"},
					"response": map[string]interface{}{
						"paths": map[string]interface{}{"text": "completion"},
					},
				},
				"models": map[string]interface{}{
					"resource": "/models",
					"response": map[string]interface{}{
						"paths":     map[string]interface{}{"list": "models/*"},
						"templates": map[string]interface{}{"list_item": "${id}"},
					},
				},
			},
		}},
		"prompts": []interface{}{
			map[string]interface{}{
				"id":                 "complete",
				"required_inputs":    []interface{}{"text"},
				"required_endpoints": []interface{}{"srv/complete"},
			},
			map[string]interface{}{
				"id":                 "translate",
				"required_inputs":    []interface{}{"text", "language"},
				"required_endpoints": []interface{}{"srv/complete"},
				"inputs": map[string]interface{}{
					"language": map[string]interface{}{
						"type":  "list",
						"items": []interface{}{"spanish", "french"},
					},
				},
			},
			map[string]interface{}{
				"id":                 "summarize-file",
				"required_inputs":    []interface{}{"text", "summary"},
				"required_endpoints": []interface{}{"srv/complete"},
				"inputs": map[string]interface{}{
					"summary": map[string]interface{}{
						"type":        "text_from_prompt",
						"prompt_id":   "complete",
						"prompt_args": map[string]interface{}{"style": "short"},
					},
				},
			},
			map[string]interface{}{
				"id":                 "pick-model",
				"visible":            false,
				"required_endpoints": []interface{}{"srv/models"},
			},
			map[string]interface{}{
				"id":                 "run-on-model",
				"required_inputs":    []interface{}{"text", "model"},
				"required_endpoints": []interface{}{"srv/complete"},
				"inputs": map[string]interface{}{
					"model": map[string]interface{}{
						"type":      "list_from_prompt",
						"prompt_id": "pick-model",
					},
				},
			},
		},
	}}})
}

var testState = catalog.ContextState{Syntax: "Go", TextChars: 10}

func TestStepSuspendsForPromptPick(t *testing.T) {
	c := testCatalog(t)
	plan, susp, err := Step(c, testState, Args{})

	require.NoError(t, err)
	require.Nil(t, plan)
	require.NotNil(t, susp)
	assert.Equal(t, SuspendPickPrompt, susp.Kind)
	for _, p := range susp.Prompts {
		assert.NotEqual(t, "pick-model", p.ID, "hidden prompts are not offered")
	}
}

func TestStepAutoSelectsSingleEndpoint(t *testing.T) {
	c := testCatalog(t)
	plan, susp, err := Step(c, testState, Args{PromptID: "complete"})

	require.NoError(t, err)
	require.Nil(t, susp)
	require.NotNil(t, plan)
	assert.Equal(t, "srv/complete", plan.Endpoint.Key())
}

func TestStepSuspendsForEndpointPick(t *testing.T) {
	c := catalog.Build([]catalog.Source{{Name: "test", Data: catalog.Spec{
		"servers": []interface{}{map[string]interface{}{
			"id":  "srv",
			"url": "https://api.example.com",
			"endpoints": map[string]interface{}{
				"a": map[string]interface{}{"resource": "/a"},
				"b": map[string]interface{}{"resource": "/b"},
			},
		}},
		"prompts": []interface{}{map[string]interface{}{"id": "p"}},
	}}})

	_, susp, err := Step(c, testState, Args{PromptID: "p"})

	require.NoError(t, err)
	require.NotNil(t, susp)
	assert.Equal(t, SuspendPickEndpoint, susp.Kind)
	assert.Len(t, susp.Endpoints, 2)
}

func TestStepAsksForListInput(t *testing.T) {
	c := testCatalog(t)
	_, susp, err := Step(c, testState, Args{PromptID: "translate"})

	require.NoError(t, err)
	require.NotNil(t, susp)
	assert.Equal(t, SuspendPickList, susp.Kind)
	assert.Equal(t, "language", susp.Slot)
	assert.Equal(t, []string{"spanish", "french"}, susp.Values)
}

func TestStepSkipsResolvedInputs(t *testing.T) {
	c := testCatalog(t)
	plan, susp, err := Step(c, testState,
		Args{PromptID: "translate", Inputs: map[string]string{"language": "spanish"}})

	require.NoError(t, err)
	require.Nil(t, susp)
	require.NotNil(t, plan)
}

func TestStepAsksGenericTextForUndeclaredInput(t *testing.T) {
	c := catalog.Build([]catalog.Source{{Name: "test", Data: catalog.Spec{
		"servers": []interface{}{map[string]interface{}{
			"id":  "srv",
			"url": "https://api.example.com",
			"endpoints": map[string]interface{}{
				"e": map[string]interface{}{"resource": "/e"},
			},
		}},
		"prompts": []interface{}{map[string]interface{}{
			"id":              "p",
			"required_inputs": []interface{}{"text", "tone_of_voice"},
		}},
	}}})

	_, susp, err := Step(c, testState, Args{PromptID: "p"})

	require.NoError(t, err)
	require.NotNil(t, susp)
	assert.Equal(t, SuspendAskText, susp.Kind)
	assert.Equal(t, "tone_of_voice", susp.Slot)
	assert.Equal(t, "Tone of voice", susp.Caption)
}

func TestStepRecursesIntoSubPrompt(t *testing.T) {
	c := testCatalog(t)
	plan, susp, err := Step(c, testState, Args{PromptID: "summarize-file"})

	require.NoError(t, err)
	require.Nil(t, susp)
	require.NotNil(t, plan)
	assert.Equal(t, "complete", plan.Prompt.ID, "controller switched to the sub-prompt")
	assert.Equal(t, "short", plan.Args.Inputs["style"], "prompt_args carry into the sub-prompt")

	require.Len(t, plan.Args.Stack, 1)
	frame := plan.Args.Stack[0]
	assert.Equal(t, "summarize-file", frame.PromptID)
	assert.Equal(t, "summary", frame.Slot)
	assert.Equal(t, MarkTextTo, frame.Marker)
}

func TestStepPendingListSuspension(t *testing.T) {
	c := testCatalog(t)
	args := Args{
		PromptID: "run-on-model",
		Lists:    map[string][][]string{"model": {{"gpt-4"}, {"gpt-3.5"}}},
	}

	_, susp, err := Step(c, testState, args)

	require.NoError(t, err)
	require.NotNil(t, susp)
	assert.Equal(t, SuspendPickList, susp.Kind)
	assert.Equal(t, "model", susp.Slot)
	assert.Equal(t, []string{"gpt-4", "gpt-3.5"}, susp.Values)
}

func TestStepUnknownPrompt(t *testing.T) {
	c := testCatalog(t)
	_, _, err := Step(c, testState, Args{PromptID: "ghost"})

	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestResumeIsLIFO(t *testing.T) {
	root := Args{PromptID: "root", Inputs: map[string]string{"kept": "yes"}}
	mid := root.Suspend("summary", MarkTextTo, "middle", nil)
	leaf := mid.Suspend("model", MarkListTo, "leaf", nil)

	require.Len(t, leaf.Stack, 2)

	backToMid, ok := leaf.Resume("", [][]string{{"m1"}})
	require.True(t, ok)
	assert.Equal(t, "middle", backToMid.PromptID)
	assert.Equal(t, [][]string{{"m1"}}, backToMid.Lists["model"])
	require.Len(t, backToMid.Stack, 1)

	backToRoot, ok := backToMid.Resume("summarized text", nil)
	require.True(t, ok)
	assert.Equal(t, "root", backToRoot.PromptID)
	assert.Equal(t, "summarized text", backToRoot.Inputs["summary"])
	assert.Equal(t, "yes", backToRoot.Inputs["kept"], "parent inputs survive the round trip")
	assert.Empty(t, backToRoot.Stack)
}

func TestResumeWithoutStack(t *testing.T) {
	_, ok := Args{PromptID: "p"}.Resume("x", nil)
	assert.False(t, ok)
}
