package pathquery

import "testing"

func TestSplitSegment(t *testing.T) {
	tests := []struct {
		name string
		path string
		key  string
		expr string
		rem  string
	}{
		{"single key", "data", "data", "", ""},
		{"two keys", "data/text", "data", "", "text"},
		{"wildcard", "*/text", "*", "", "text"},
		{"descent", "**/text", "**", "", "text"},
		{"expression", "*[x == 1]/y", "*", "x == 1", "y"},
		{"expression only segment", "key[a and b]", "key", "a and b", ""},
		{"quoted key with separator", "'a/b'/c", "a/b", "", "c"},
		{"double quoted key", `"x/y"[z]/w`, "x/y", "z", "w"},
		{"nested brackets", "*[a in ['x]]", "*", "a in ['x]", ""},
		{"empty", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, expr, rem := splitSegment(tt.path, '/')
			if key != tt.key || expr != tt.expr || rem != tt.rem {
				t.Errorf("splitSegment(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.path, key, expr, rem, tt.key, tt.expr, tt.rem)
			}
		})
	}
}

func TestDeepestKey(t *testing.T) {
	if got := deepestKey("a/b/c", '/'); got != "c" {
		t.Errorf("deepestKey = %q, want %q", got, "c")
	}
	if got := deepestKey("a/'b/x'", '/'); got != "b/x" {
		t.Errorf("deepestKey = %q, want %q", got, "b/x")
	}
}
