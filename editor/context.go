package editor

import (
	"strings"

	"github.com/inkwell-ai/inkwell/catalog"
)

// Context is the text surrounding a selection, sized per a prompt's
// required_context declaration.
type Context struct {
	Text string
	Pre  string
	Post string
}

// GetContext extracts the selected text and up to the requested amount of
// surrounding text. With no requirement only the selection is returned.
func GetContext(v View, r Region, cr *catalog.ContextRequirement) Context {
	ctx := Context{Text: v.Substr(r)}
	if cr == nil {
		return ctx
	}
	switch cr.Unit {
	case catalog.ContextLines:
		ctx.Pre = precedingLines(v, r, cr.PreSize)
		ctx.Post = followingLines(v, r, cr.PostSize)
	default:
		ctx.Pre = v.Substr(Region{Begin: r.Begin - cr.PreSize, End: r.Begin})
		ctx.Post = v.Substr(Region{Begin: r.End, End: r.End + cr.PostSize})
	}
	return ctx
}

func precedingLines(v View, r Region, n int) string {
	if n <= 0 {
		return ""
	}
	before := v.Substr(Region{Begin: 0, End: LineRegion(v, Region{Begin: r.Begin, End: r.Begin}).Begin})
	lines := splitTrailing(before)
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func followingLines(v View, r Region, n int) string {
	if n <= 0 {
		return ""
	}
	lineEnd := LineRegion(v, Region{Begin: r.End, End: r.End}).End
	after := v.Substr(Region{Begin: lineEnd, End: v.Size()})
	lines := splitLeading(after)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// splitTrailing drops the trailing newline before splitting, so the blank
// tail of "a\nb\n" does not count as a line of context.
func splitTrailing(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func splitLeading(s string) []string {
	s = strings.TrimPrefix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// StateFor measures what the view can currently supply around the region,
// in both units, for the catalog's context filters.
func StateFor(v View, r Region) catalog.ContextState {
	text := v.Substr(r)
	pre := v.Substr(Region{Begin: 0, End: r.Begin})
	post := v.Substr(Region{Begin: r.End, End: v.Size()})

	return catalog.ContextState{
		Syntax:    v.Syntax(),
		TextChars: len([]rune(text)),
		TextLines: countLines(text),
		PreChars:  len([]rune(pre)),
		PostChars: len([]rune(post)),
		PreLines:  countLines(pre),
		PostLines: countLines(post),
	}
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
