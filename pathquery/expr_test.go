package pathquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalSrc(t *testing.T, src string, scope map[string]interface{}) (interface{}, error) {
	t.Helper()
	node, err := compileExpr(src)
	require.NoError(t, err, "compile %q", src)
	return node.eval(scope)
}

func TestExprComparisons(t *testing.T) {
	scope := map[string]interface{}{
		"role":  "assistant",
		"index": float64(2),
		"_key":  0,
	}

	tests := []struct {
		src  string
		want bool
	}{
		{"role == 'assistant'", true},
		{"role != 'user'", true},
		{"index > 1", true},
		{"index >= 2", true},
		{"index < 2", false},
		{"index <= 1", false},
		{"_key == 0", true},
		{"role == 'assistant' and index > 1", true},
		{"role == 'user' or index > 1", true},
		{"not (role == 'user')", true},
		{"role == 'user' and index > 1", false},
		{"'assist' in role", true},
		{"'nope' not in role", true},
		{"index == -2", false},
		{"-index < 0", true},
		{"true", true},
		{"false or true", true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := evalSrc(t, tt.src, scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, truthy(got))
		})
	}
}

func TestExprMembership(t *testing.T) {
	scope := map[string]interface{}{
		"tags": []interface{}{"draft", "ai"},
		"meta": map[string]interface{}{"kind": "note"},
	}
	got, err := evalSrc(t, "'ai' in tags", scope)
	require.NoError(t, err)
	assert.True(t, truthy(got))

	got, err = evalSrc(t, "'kind' in meta", scope)
	require.NoError(t, err)
	assert.True(t, truthy(got))

	got, err = evalSrc(t, "'missing' in tags", scope)
	require.NoError(t, err)
	assert.False(t, truthy(got))
}

func TestExprUnknownNameFailsClosed(t *testing.T) {
	scope := map[string]interface{}{"_key": "x"}
	node, err := compileExpr("nonexistent == 1")
	require.NoError(t, err)
	_, err = node.eval(scope)
	assert.Error(t, err)
}

func TestExprCompileErrors(t *testing.T) {
	for _, src := range []string{
		"role ==",
		"(role == 'x'",
		"'unterminated",
		"role = 'x'",
		"role == 'x' extra",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := compileExpr(src)
			assert.Error(t, err, "expected compile failure for %q", src)
		})
	}
}

func TestExprCache(t *testing.T) {
	cache := newExprCache()
	n1, err := cache.get("a == 1")
	require.NoError(t, err)
	n2, err := cache.get("a == 1")
	require.NoError(t, err)
	assert.Equal(t, n1, n2)

	_, err = cache.get("a ==")
	assert.Error(t, err)
	// the failure is cached too
	_, err = cache.get("a ==")
	assert.Error(t, err)
}
