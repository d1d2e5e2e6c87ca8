package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariablesListFormKeepsOrder(t *testing.T) {
	p, err := newPrompt(Spec{
		"id": "p",
		"vars": []interface{}{
			map[string]interface{}{"zeta": "z"},
			map[string]interface{}{"alpha": "a"},
		},
	}, "p")
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha"}, p.VarNames())
}

func TestVariablesMapFormOrdersByReference(t *testing.T) {
	p, err := newPrompt(Spec{
		"id": "p",
		"vars": map[string]interface{}{
			"greeting": "Hello ${name}",
			"name":     "${text}",
			"closing":  "${greeting}, bye",
		},
	}, "p")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "greeting", "closing"}, p.VarNames(),
		"a variable referencing another is evaluated after it")
}

func TestVariablesMapFormTiesAlphabetical(t *testing.T) {
	p, err := newPrompt(Spec{
		"id": "p",
		"vars": map[string]interface{}{
			"c": "3", "a": "1", "b": "2",
		},
	}, "p")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, p.VarNames())
}

func TestVariablesReferenceCycleStillLoads(t *testing.T) {
	p, err := newPrompt(Spec{
		"id": "p",
		"vars": map[string]interface{}{
			"a": "${b}",
			"b": "${a}",
		},
	}, "p")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, p.VarNames())
}

func TestVariablesRejectNonStringTemplates(t *testing.T) {
	_, err := newPrompt(Spec{
		"id":   "p",
		"vars": map[string]interface{}{"n": 42},
	}, "p")
	assert.Error(t, err)
}

func TestCommandDefaults(t *testing.T) {
	p, err := newPrompt(Spec{"id": "p"}, "p")
	require.NoError(t, err)

	assert.Equal(t, "replace", p.Command.Cmd)
	assert.True(t, p.Command.StripOutput)
	assert.False(t, p.Command.NewLineBefore)
}

func TestCommandShorthand(t *testing.T) {
	p, err := newPrompt(Spec{"id": "p", "command": "append"}, "p")
	require.NoError(t, err)

	assert.Equal(t, "append", p.Command.Cmd)
}

func TestRequiredContextValidation(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
		want    *ContextRequirement
	}{
		{
			name: "lines unit",
			spec: Spec{"id": "p", "required_context": map[string]interface{}{
				"unit": "lines", "pre_size": 10, "post_size": 5,
			}},
			want: &ContextRequirement{Unit: ContextLines, PreSize: 10, PostSize: 5},
		},
		{
			name: "default unit is chars",
			spec: Spec{"id": "p", "required_context": map[string]interface{}{
				"pre_size": 256,
			}},
			want: &ContextRequirement{Unit: ContextChars, PreSize: 256},
		},
		{
			name: "unknown unit",
			spec: Spec{"id": "p", "required_context": map[string]interface{}{
				"unit": "tokens",
			}},
			wantErr: true,
		},
		{
			name: "absent",
			spec: Spec{"id": "p"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := newPrompt(tt.spec, "p")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.RequiredContext)
		})
	}
}

func TestInputTypes(t *testing.T) {
	p, err := newPrompt(Spec{
		"id": "p",
		"inputs": map[string]interface{}{
			"instruction": map[string]interface{}{"type": "text", "caption": "Instruction"},
			"language": map[string]interface{}{
				"type":  "list",
				"items": []interface{}{"go", map[string]interface{}{"label": "Python", "value": "python"}},
			},
			"summary": map[string]interface{}{
				"type":        "text_from_prompt",
				"prompt_id":   "summarize",
				"prompt_args": map[string]interface{}{"style": "short"},
			},
		},
	}, "p")
	require.NoError(t, err)

	assert.Equal(t, InputText, p.Inputs["instruction"].Type)

	lang := p.Inputs["language"]
	require.Len(t, lang.Items, 2)
	assert.Equal(t, ListOption{Label: "go", Value: "go"}, lang.Items[0])
	assert.Equal(t, ListOption{Label: "Python", Value: "python"}, lang.Items[1])

	sum := p.Inputs["summary"]
	assert.Equal(t, "summarize", sum.PromptID)
	assert.Equal(t, map[string]string{"style": "short"}, sum.PromptArgs)
}

func TestInputRejectsUnknownType(t *testing.T) {
	_, err := newPrompt(Spec{
		"id": "p",
		"inputs": map[string]interface{}{
			"x": map[string]interface{}{"type": "slider"},
		},
	}, "p")
	assert.Error(t, err)
}
