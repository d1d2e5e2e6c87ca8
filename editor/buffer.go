package editor

import (
	"strings"
)

// TextBuffer is an in-memory View. Offsets are rune indices, so multi-byte
// text behaves the way an editor's character offsets do.
type TextBuffer struct {
	runes      []rune
	selections []Region
	syntax     string
}

// NewTextBuffer creates a buffer over the given text with no selection.
func NewTextBuffer(text, syntax string) *TextBuffer {
	return &TextBuffer{runes: []rune(text), syntax: syntax}
}

// Select replaces the buffer's selections.
func (b *TextBuffer) Select(regions ...Region) {
	b.selections = append([]Region(nil), regions...)
}

// String returns the buffer's full text.
func (b *TextBuffer) String() string { return string(b.runes) }

func (b *TextBuffer) Substr(r Region) string {
	begin, end := b.clamp(r)
	return string(b.runes[begin:end])
}

func (b *TextBuffer) Size() int { return len(b.runes) }

func (b *TextBuffer) Selections() []Region {
	return append([]Region(nil), b.selections...)
}

func (b *TextBuffer) Syntax() string { return b.syntax }

func (b *TextBuffer) Replace(r Region, s string) {
	begin, end := b.clamp(r)
	replacement := []rune(s)
	next := make([]rune, 0, len(b.runes)-(end-begin)+len(replacement))
	next = append(next, b.runes[:begin]...)
	next = append(next, replacement...)
	next = append(next, b.runes[end:]...)
	b.runes = next
	b.shiftSelections(begin, end, len(replacement))
}

func (b *TextBuffer) Insert(offset int, s string) {
	b.Replace(Region{Begin: offset, End: offset}, s)
}

func (b *TextBuffer) clamp(r Region) (int, int) {
	begin, end := r.Begin, r.End
	if begin < 0 {
		begin = 0
	}
	if begin > len(b.runes) {
		begin = len(b.runes)
	}
	if end > len(b.runes) {
		end = len(b.runes)
	}
	if end < begin {
		end = begin
	}
	return begin, end
}

// shiftSelections keeps selections meaningful across an edit: regions past
// the edit shift by the length delta, a region covering the edited span
// grows or shrinks with it.
func (b *TextBuffer) shiftSelections(begin, end, inserted int) {
	delta := inserted - (end - begin)
	for i, sel := range b.selections {
		if sel.Begin >= end {
			sel.Begin += delta
		}
		if sel.End >= end {
			sel.End += delta
		}
		b.selections[i] = sel
	}
}

// LineRegion expands the region to full lines: from the start of the line
// containing Begin to the end of the line containing End (newline excluded).
func LineRegion(v View, r Region) Region {
	text := []rune(v.Substr(Region{Begin: 0, End: v.Size()}))
	begin := r.Begin
	if begin > len(text) {
		begin = len(text)
	}
	for begin > 0 && text[begin-1] != '\n' {
		begin--
	}
	end := r.End
	if end > len(text) {
		end = len(text)
	}
	for end < len(text) && text[end] != '\n' {
		end++
	}
	return Region{Begin: begin, End: end}
}

// LineIndentation returns the leading whitespace of the line containing the
// region's start.
func LineIndentation(v View, r Region) string {
	line := v.Substr(LineRegion(v, Region{Begin: r.Begin, End: r.Begin}))
	trimmed := strings.TrimLeft(line, " \t")
	return line[:len(line)-len(trimmed)]
}
