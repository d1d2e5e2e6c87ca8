package catalog

import (
	"github.com/google/uuid"

	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/logger"
)

// Configuration items (servers, prompts) may declare `import: {from: <id>}`
// to inherit from a sibling item. Resolution walks the parent chain
// recursively, detecting cycles, and merges the parent's fields under the
// child's per a fixed per-field policy table.

type importState int

const (
	importNone importState = iota
	importPending
	importDone
	importFailed
)

// item carries the identity, raw spec, and import state shared by every
// configuration entity.
type item struct {
	ident      string
	spec       Spec
	importSpec Spec
	state      importState
}

// newItem initializes the shared fields. A missing ident is synthesized so
// anonymous items stay addressable in logs.
func newItem(spec Spec, ident, itemType string) (item, error) {
	if ident == "" {
		ident = itemType + "_" + uuid.NewString()
	}
	importSpec, err := loadSpec(spec, "import", ident, "from")
	if err != nil {
		return item{}, err
	}
	state := importNone
	if len(importSpec) > 0 {
		state = importPending
	}
	return item{ident: ident, spec: spec, importSpec: importSpec, state: state}, nil
}

func (it *item) importPending() bool { return it.state == importPending }
func (it *item) importFailed() bool  { return it.state == importFailed }

// importable is satisfied by the item types that support import resolution.
type importable[T any] interface {
	base() *item
	rebuild(spec Spec) (T, error)
}

// resolveImport returns the item with its import chain fully resolved, or
// the item marked failed. The chain records visited parent ids: meeting the
// same id twice is a cyclic import, an import failure rather than infinite
// recursion.
func resolveImport[T importable[T]](self T, parents map[string]T, chain []string) T {
	it := self.base()
	if !it.importPending() {
		return self
	}
	fail := func(err error) T {
		it.state = importFailed
		logger.Warnw("import failed", "id", it.ident, "error", err)
		return self
	}

	parentID, ok := it.importSpec["from"].(string)
	if !ok || parentID == "" {
		return fail(errors.NewImportError("import declares no parent id"))
	}
	for _, seen := range chain {
		if seen == parentID {
			return fail(errors.NewImportError("cyclic import chain through %s", parentID))
		}
	}
	chain = append(chain, parentID)

	parent, exists := parents[parentID]
	if !exists {
		return fail(errors.NewImportError("parent %s does not exist", parentID))
	}
	if parent.base().importPending() {
		parents[parentID] = resolveImport(parent, parents, chain)
		parent = parents[parentID]
	}
	if parent.base().importFailed() {
		return fail(errors.NewImportError("parent %s failed to import", parentID))
	}

	merged := mergeSpecs(parent.base().spec, it.spec, it.importSpec)
	rebuilt, err := self.rebuild(merged)
	if err != nil {
		return fail(errors.Wrap(errors.ErrImport, err.Error()))
	}
	rebuilt.base().state = importDone
	return rebuilt
}

// resolveImports resolves every item of a catalog in place.
func resolveImports[T importable[T]](items map[string]T) {
	for id := range items {
		items[id] = resolveImport(items[id], items, nil)
	}
}

// dropFailedImports removes items whose import chain could not be resolved.
func dropFailedImports[T importable[T]](items map[string]T) {
	for id, it := range items {
		if it.base().importFailed() {
			delete(items, id)
		}
	}
}

// mergePolicies is the per-field default merge policy applied when both
// parent and child declare the field. Unlisted fields follow whole-field
// child-wins replacement.
var mergePolicies = map[string]string{
	"import":             "delete",
	"required_inputs":    "replace",
	"required_syntax":    "update",
	"required_context":   "replace",
	"required_endpoints": "update",
	"inputs":             "update",
	"vars":               "update",
	"params":             "update",
	"query":              "update",
	"command":            "replace",
}

// mergeSpecs produces the merged spec of a child importing from a resolved
// parent. The child's own import object may override any field's default
// policy by naming the field with an explicit policy string.
func mergeSpecs(parent, child, importSpec Spec) Spec {
	merged := copySpec(parent)
	for k, v := range child {
		merged[k] = copyValue(v)
	}
	// the import declaration itself never survives a merge
	delete(merged, "import")

	for key, policy := range mergePolicies {
		if key == "import" {
			continue
		}
		parentV, parentOk := parent[key]
		childV, childOk := child[key]
		if !parentOk || !childOk || parentV == nil || childV == nil {
			continue
		}
		if override, ok := importSpec[key].(string); ok {
			policy = override
		}
		switch policy {
		case "replace":
			// child's value already in merged
		case "delete":
			delete(merged, key)
		case "update":
			merged[key] = mergeValues(parentV, childV)
		}
	}
	return merged
}

// mergeValues concatenates lists (parent first) and override-merges maps
// (child keys win, other parent keys retained). Mismatched shapes fall back
// to the child's value.
func mergeValues(parentV, childV interface{}) interface{} {
	if pl, ok := parentV.([]interface{}); ok {
		if cl, ok := childV.([]interface{}); ok {
			out := make([]interface{}, 0, len(pl)+len(cl))
			for _, v := range pl {
				out = append(out, copyValue(v))
			}
			for _, v := range cl {
				out = append(out, copyValue(v))
			}
			return out
		}
	}
	if pm, ok := asSpec(parentV); ok {
		if cm, ok := asSpec(childV); ok {
			out := copySpec(pm)
			for k, v := range cm {
				out[k] = copyValue(v)
			}
			return map[string]interface{}(out)
		}
	}
	return copyValue(childV)
}
