package update

import (
	"errors"
	"fmt"

	"restmap/capability"
	"restmap/coerce"
	"restmap/schema"
	"restmap/store"
	"restmap/token"
)

// frameKind tags the entries of the interpreter's work stack.
type frameKind int

const (
	frameDescend frameKind = iota // process one key/value pair
	frameExpand                   // split a multi-key node into descend frames
	framePop                      // leave a subtree scope
)

type frame struct {
	kind frameKind
	key  string
	node any
}

// interpreter walks a hierarchical update tree against a live record graph.
// Three parallel stacks track the walk: the work stack of frames, the object
// stack of in-scope records, and the key stack of path segments. Pushing a
// subtree always pairs with a later pop of both the object and key stacks,
// so the object stack's depth stays exactly one ahead of the key stack's.
type interpreter struct {
	st  store.Store
	reg *schema.Registry
	wl  capability.Whitelist

	// limit bounds the work stack; zero means unbounded.
	limit int

	// stage controls pending-write registration for created records.
	stage bool

	// commit gates every mutation point; false runs validation only.
	commit bool

	stack []frame
	objs  []schema.Record
	keys  []string

	rootID schema.TypeID
	errs   ErrorMap
}

// run walks the tree, mutating root in place. It returns a fatal error for
// whole-request-invalidating conditions only; per-path failures accumulate
// in errs so sibling subtrees still get processed.
func (in *interpreter) run(root schema.Record, tree Tree) error {
	in.rootID = root.TypeID()
	in.stack = []frame{{kind: frameExpand, node: tree}}
	in.objs = []schema.Record{root}
	in.keys = nil

	for len(in.stack) > 0 {
		if in.limit > 0 && len(in.stack) > in.limit {
			return &ComplexityError{Limit: in.limit}
		}

		f := in.stack[len(in.stack)-1]
		in.stack = in.stack[:len(in.stack)-1]

		switch f.kind {
		case framePop:
			in.objs = in.objs[:len(in.objs)-1]
			in.keys = in.keys[:len(in.keys)-1]
		case frameExpand:
			in.expand(f.node)
		case frameDescend:
			if err := in.step(f.key, f.node); err != nil {
				return err
			}
		}
	}

	return nil
}

// expand splits a tree node into one descend frame per key. Keys are pushed
// in descending order so they process in ascending order: the $-prefixed
// verb tokens sort ahead of plain attribute names, guaranteeing that e.g. a
// detach is handled before a reassignment of the same relationship.
func (in *interpreter) expand(node any) {
	tree, ok := node.(Tree)
	if !ok {
		return
	}

	keys := tree.sortedKeys()
	for i := len(keys) - 1; i >= 0; i-- {
		in.stack = append(in.stack, frame{kind: frameDescend, key: keys[i], node: tree[keys[i]]})
	}
}

// step processes a single key/value pair at the current position.
func (in *interpreter) step(key string, node any) error {
	dotted := in.rootID.Name + "." + joinPath(in.keys, key)

	steps, err := schema.Resolve(in.reg, in.rootID, dotted)
	if err != nil {
		if errors.Is(err, schema.ErrPathFormat) {
			return err
		}

		// Children under an unresolvable key are unreachable; record the
		// error once and skip the subtree.
		in.errs.Add(in.genericPath(key), err.Error())

		return nil
	}

	switch {
	case token.IsAdd(key) || token.IsSet(key):
		// Handled when the sibling identity or new node was processed;
		// present only as an explicit marker.
		return nil
	case token.IsRemove(key):
		in.stepRemove(node, steps)
	case token.IsNew(key):
		in.stepNew(key, node, steps)
	case token.IsIdentity(key):
		in.stepIdentity(key, node, steps)
	default:
		in.stepAttribute(key, node, steps)
	}

	return nil
}

// stepRemove detaches the in-scope record from its parent relationship.
func (in *interpreter) stepRemove(node any, steps []schema.Step) {
	if !token.Truthy(node) {
		return
	}

	generic := capability.GenericName(in.keys)

	wlName := capability.NormalizeName(in.keys)
	if !in.wl.Allows(wlName, capability.VerbRemove) {
		in.errs.Add(generic, fmt.Sprintf("removing from %s is not whitelisted", wlName))
		return
	}

	relAttr := nearestAttr(steps[:len(steps)-1])
	if relAttr == nil || !relAttr.IsRelation() || len(in.objs) < 3 {
		in.errs.Add(generic, fmt.Sprintf("%s is not a valid item to be removed", wlName))
		return
	}

	owner := in.objs[len(in.objs)-3]
	relName := in.keys[len(in.keys)-2]
	current := in.objs[len(in.objs)-1]

	if owner == nil {
		in.errs.Add(generic, fmt.Sprintf("%s is not a valid item to be removed", wlName))
		return
	}

	if relAttr.Kind == schema.AttrToOne {
		if in.commit {
			if err := owner.SetRelation(relName, nil); err != nil {
				in.errs.Add(generic, err.Error())
				return
			}
		}

		// The detached record is gone from the graph; anything further
		// addressed through it must re-identify a parent.
		in.objs[len(in.objs)-1] = nil

		return
	}

	if current == nil {
		return
	}

	if in.commit {
		if err := owner.RemoveRelated(relName, current); err != nil {
			in.errs.Add(generic, err.Error())
		}
	}
}

// stepNew instantiates a new related record and attaches it to the parent
// relationship. The new record is pushed for descent even when creation was
// denied, so nested field errors on the aborted creation still surface.
func (in *interpreter) stepNew(key string, node any, steps []schema.Step) {
	generic := in.genericPath(key)
	wlName := capability.NormalizeName(in.keys)

	allowed := in.wl.Allows(wlName, capability.VerbCreate)
	if !allowed {
		in.errs.Add(generic, fmt.Sprintf("creating a new %s is not whitelisted", wlName))
	}

	relAttr := nearestAttr(steps[:len(steps)-1])
	if relAttr == nil || !relAttr.IsRelation() {
		in.errs.Add(generic, fmt.Sprintf("cannot create a new %s: parent is not a relationship", wlName))
		return
	}

	target := in.reg.Type(relAttr.Target)
	if target == nil {
		in.errs.Add(generic, fmt.Sprintf("related type %s is not registered", relAttr.Target))
		return
	}

	subtree, ok := node.(Tree)
	if !ok {
		in.errs.Add(generic, "attempted to set an object to a raw value")
		return
	}

	rec := target.New()

	if allowed {
		if in.attach(relAttr, rec, subtree, wlName, generic) && in.stage && in.commit {
			if err := in.st.StagePending(rec); err != nil {
				in.errs.Add(generic, err.Error())
			}
		}
	}

	in.descend(key, rec, subtree)
}

// stepIdentity resolves an identity reference against the backing store and
// attaches the found record if it is not already in the relationship. On any
// failure a disposable placeholder instance is pushed instead, so nested
// field errors are still reported without aborting the walk.
func (in *interpreter) stepIdentity(key string, node any, steps []schema.Step) {
	generic := in.genericPath(key)
	wlName := capability.NormalizeName(in.keys)

	relAttr := nearestAttr(steps[:len(steps)-1])
	if relAttr == nil || !relAttr.IsRelation() {
		in.errs.Add(generic, fmt.Sprintf("invalid $id reference: %s", joinPath(in.keys, key)))
		return
	}

	target := in.reg.Type(relAttr.Target)
	if target == nil {
		in.errs.Add(generic, fmt.Sprintf("related type %s is not registered", relAttr.Target))
		return
	}

	subtree, ok := node.(Tree)
	if !ok {
		in.errs.Add(generic, "attempted to set an object to a raw value")
		return
	}

	owner := in.objs[len(in.objs)-2]
	relName := in.keys[len(in.keys)-1]

	resolved := in.lookupIdentity(key, relAttr, owner, relName, subtree, wlName, generic)
	if resolved == nil {
		// Disposable placeholder purely so nested field errors can still
		// be reported.
		resolved = target.New()
	}

	in.descend(key, resolved, subtree)
}

// lookupIdentity returns the record an identity segment addresses once it is
// attached to the parent, or nil if resolution or attachment failed (with
// the failure recorded).
func (in *interpreter) lookupIdentity(key string, relAttr *schema.Attribute, owner schema.Record, relName string, subtree Tree, wlName, generic string) schema.Record {
	fields, err := token.ParseIdentity(key)
	if err != nil {
		in.errs.Add(generic, err.Error())
		return nil
	}

	if len(fields) == 0 {
		in.errs.Add(generic, "identity reference carries no field values")
		return nil
	}

	filters := map[string]any{}
	failed := false

	for name, raw := range fields {
		attr := in.reg.Attr(relAttr.Target, name)
		if attr == nil || attr.Kind != schema.AttrScalar {
			in.errs.Add(generic, fmt.Sprintf("invalid $id field %q for %s", name, relAttr.Target))

			failed = true

			continue
		}

		value, cerr := coerce.Coerce(raw, attr.Scalar)
		if cerr != nil {
			in.errs.Add(generic, cerr.Error())

			failed = true

			continue
		}

		filters[name] = value
	}

	if failed || owner == nil {
		if owner == nil {
			in.errs.Add(generic, fmt.Sprintf("an $id reference must have a parent object: %s", joinPath(in.keys, key)))
		}

		return nil
	}

	// Already attached to the parent? Then no verb or capability is needed;
	// the reference merely scopes the nested updates.
	attached, err := in.st.FindWithParent(relAttr.Target, owner, relName, filters)
	if err != nil {
		in.errs.Add(generic, err.Error())
		return nil
	}

	if attached != nil {
		return attached
	}

	found, err := in.st.FindByFilter(relAttr.Target, filters)
	if err != nil {
		in.errs.Add(generic, err.Error())
		return nil
	}

	if found == nil {
		in.errs.Add(generic, fmt.Sprintf("referenced a %s that does not exist", wlName))
		return nil
	}

	if !in.attach(relAttr, found, subtree, wlName, generic) {
		return nil
	}

	return found
}

// attach adds a record to the parent relationship, enforcing the explicit
// verb markers and the whitelist. Returns true on success.
func (in *interpreter) attach(relAttr *schema.Attribute, rec schema.Record, subtree Tree, wlName, generic string) bool {
	owner := in.objs[len(in.objs)-2]
	relName := in.keys[len(in.keys)-1]

	if owner == nil {
		in.errs.Add(generic, fmt.Sprintf("%s has no parent object to attach to", wlName))
		return false
	}

	if relAttr.Kind == schema.AttrToMany {
		if !markerTruthy(subtree, token.IsAdd) {
			in.errs.Add(generic, fmt.Sprintf("referenced a sub item of %s that is not in the relationship: did you forget to include $add?", wlName))
			return false
		}

		if !in.wl.Allows(wlName, capability.VerbAdd) {
			in.errs.Add(generic, fmt.Sprintf("adding to %s is not whitelisted", wlName))
			return false
		}

		if in.commit {
			if err := owner.AddRelated(relName, rec); err != nil {
				in.errs.Add(generic, err.Error())
				return false
			}
		}

		return true
	}

	return in.setSingleRelation(owner, relName, rec, subtree, wlName, generic)
}

// setSingleRelation assigns a to-one relationship. Replacing an occupied
// slot implicitly detaches the old record, so it demands either the set
// capability or both remove and add; an empty slot accepts set or add.
func (in *interpreter) setSingleRelation(owner schema.Record, relName string, rec schema.Record, subtree Tree, wlName, generic string) bool {
	if owner.Relation(relName) != nil {
		if !markerTruthy(subtree, token.IsSet) {
			in.errs.Add(generic, fmt.Sprintf("the %s relationship is already set to another object: did you forget to include $set?", wlName))
			return false
		}

		setOK := in.wl.Allows(wlName, capability.VerbSet)
		swapOK := in.wl.Allows(wlName, capability.VerbRemove) && in.wl.Allows(wlName, capability.VerbAdd)

		if !setOK && !swapOK {
			in.errs.Add(generic, fmt.Sprintf("cannot set %s to a different object: neither $set nor $remove and $add are whitelisted", wlName))
			return false
		}
	} else {
		if !markerTruthy(subtree, token.IsSet) && !markerTruthy(subtree, token.IsAdd) {
			in.errs.Add(generic, fmt.Sprintf("the %s relationship is unset: did you forget to include $set or $add?", wlName))
			return false
		}

		if !in.wl.Allows(wlName, capability.VerbSet) && !in.wl.Allows(wlName, capability.VerbAdd) {
			in.errs.Add(generic, fmt.Sprintf("cannot set %s: neither $set nor $add are whitelisted", wlName))
			return false
		}
	}

	if in.commit {
		if err := owner.SetRelation(relName, rec); err != nil {
			in.errs.Add(generic, err.Error())
			return false
		}
	}

	return true
}

// stepAttribute handles an ordinary attribute segment: scalar assignment, or
// descent into a relationship subtree.
func (in *interpreter) stepAttribute(key string, node any, steps []schema.Step) {
	generic := in.genericPath(key)

	attr := steps[len(steps)-1].Attr
	parent := in.objs[len(in.objs)-1]

	if parent == nil {
		in.errs.Add(generic, fmt.Sprintf("%s is not a valid parent for %q: you may have forgotten to use an $id identifier", capability.GenericName(in.keys), key))
		return
	}

	if attr.Kind == schema.AttrScalar {
		wlName := capability.NormalizeName(append(copyKeys(in.keys), key))
		if !in.wl.Allows(wlName, capability.VerbNone) {
			in.errs.Add(generic, fmt.Sprintf("modifying %s is not permitted", wlName))
			return
		}

		value, err := coerce.Coerce(node, attr.Scalar)
		if err != nil {
			in.errs.Add(generic, err.Error())
			return
		}

		if in.commit {
			if err := parent.SetField(key, value); err != nil {
				in.errs.Add(generic, err.Error())
			}
		}

		return
	}

	// A relationship addressed without an identity/new/verb token: descend
	// with a nil scope so nested fields demand one before assigning.
	subtree, ok := node.(Tree)
	if !ok {
		in.errs.Add(generic, "attempted to set an object to a raw value")
		return
	}

	in.descend(key, nil, subtree)
}

// descend enters a subtree scope: the object and key stacks grow together
// with a pop frame scheduled to unwind them once the subtree finishes.
func (in *interpreter) descend(key string, obj schema.Record, subtree Tree) {
	in.keys = append(in.keys, key)
	in.objs = append(in.objs, obj)
	in.stack = append(in.stack, frame{kind: framePop})
	in.stack = append(in.stack, frame{kind: frameExpand, node: subtree})
}

// genericPath returns the stable error-reporting path for the current
// position plus key, with identity/new segments replaced by placeholders.
func (in *interpreter) genericPath(key string) string {
	return capability.GenericName(append(copyKeys(in.keys), key))
}

// nearestAttr returns the closest resolved attribute at or before the end of
// the step list, skipping control-token sentinels.
func nearestAttr(steps []schema.Step) *schema.Attribute {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Attr != nil {
			return steps[i].Attr
		}
	}

	return nil
}

// markerTruthy reports whether the subtree carries an explicit truthy verb
// marker matching the predicate, in any accepted encoding.
func markerTruthy(subtree Tree, pred func(string) bool) bool {
	for key, value := range subtree {
		if pred(key) && token.Truthy(value) {
			return true
		}
	}

	return false
}

func joinPath(keys []string, key string) string {
	if len(keys) == 0 {
		return key
	}

	out := keys[0]
	for _, k := range keys[1:] {
		out += "." + k
	}

	return out + "." + key
}

func copyKeys(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)

	return out
}
