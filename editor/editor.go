// Package editor abstracts the host editor: regions of selected text, the
// view being edited, and the window operations an applied prompt output may
// need. A concrete in-memory TextBuffer backs tests and the CLI.
package editor

// Region is a half-open [Begin, End) span of rune offsets in a view.
type Region struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Empty reports whether the region selects no text.
func (r Region) Empty() bool { return r.End <= r.Begin }

// Size is the number of runes the region covers.
func (r Region) Size() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Begin
}

// View is the read/write surface of one open buffer.
type View interface {
	// Substr returns the text covered by the region, clamped to the view.
	Substr(r Region) string
	// Size is the total rune count of the view.
	Size() int
	// Selections returns the current selection regions in document order.
	Selections() []Region
	// Syntax is the name of the view's syntax ("Go", "Python", ...).
	Syntax() string
	// Replace substitutes the region's text, shifting later offsets.
	Replace(r Region, s string)
	// Insert places text at the offset, shifting later offsets.
	Insert(offset int, s string)
}

// Window hosts views and the surfaces an output command may target
// besides the current view.
type Window interface {
	// NewFile opens a fresh view holding the given content.
	NewFile(content, syntax string) error
	// ShowOutput presents content in a named output panel.
	ShowOutput(name, content string) error
}
