package fractal

import (
	"maps"
	"slices"

	rterrors "github.com/tuirun/fractal/internal/errors"
	"github.com/tuirun/fractal/term"
)

// ActionFunc is a named, reusable update handler bound to a parent model
// type M (spec.md §4.6 "action name → handler").
type ActionFunc[M any] func(M) (M, Cmd)

// guard is the resolved predicate a key/mouse entry or a Group must pass
// before its handler runs (spec.md §4.6 "guards").
type guard[M any] struct {
	pred   func(M) bool
	negate bool
}

func (g *guard[M]) allows(m M) bool {
	if g == nil || g.pred == nil {
		return true
	}

	if g.negate {
		return !g.pred(m)
	}

	return g.pred(m)
}

// andGuard combines two guards with logical AND, matching design note 9's
// "guards compose (nested-block guard × per-key guard = logical AND)". A
// nil operand is treated as the always-true guard.
func andGuard[M any](a, b *guard[M]) *guard[M] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	return &guard[M]{pred: func(m M) bool { return a.allows(m) && b.allows(m) }}
}

// keyConfig accumulates the options passed to one Key/Mouse/Group call.
type keyConfig[M any] struct {
	route   string
	setters []func(*guard[M])
}

// KeyOption configures one Key, Mouse, or Group registration.
type KeyOption[M any] func(*keyConfig[M])

// WithRoute wraps a handler's returned command with Route(cmd, prefix)
// (spec.md §4.6 "route: optional_prefix").
func WithRoute[M any](prefix string) KeyOption[M] {
	return func(c *keyConfig[M]) { c.route = prefix }
}

// When runs the handler only when pred(model) is true. If/Only/Guard are
// the same predicate under spec.md §4.6's aliasing rule.
func When[M any](pred func(M) bool) KeyOption[M] {
	return func(c *keyConfig[M]) {
		c.setters = append(c.setters, func(g *guard[M]) { g.pred, g.negate = pred, false })
	}
}

// If is an alias of When.
func If[M any](pred func(M) bool) KeyOption[M] { return When[M](pred) }

// Only is an alias of When.
func Only[M any](pred func(M) bool) KeyOption[M] { return When[M](pred) }

// Guard is an alias of When.
func Guard[M any](pred func(M) bool) KeyOption[M] { return When[M](pred) }

// Unless runs the handler only when pred(model) is false. Skip/Except are
// the same predicate under spec.md §4.6's aliasing rule.
func Unless[M any](pred func(M) bool) KeyOption[M] {
	return func(c *keyConfig[M]) {
		c.setters = append(c.setters, func(g *guard[M]) { g.pred, g.negate = pred, true })
	}
}

// Skip is an alias of Unless.
func Skip[M any](pred func(M) bool) KeyOption[M] { return Unless[M](pred) }

// Except is an alias of Unless.
func Except[M any](pred func(M) bool) KeyOption[M] { return Unless[M](pred) }

func buildConfig[M any](opts []KeyOption[M]) keyConfig[M] {
	var c keyConfig[M]
	for _, opt := range opts {
		opt(&c)
	}

	if len(c.setters) > 1 {
		panic(&rterrors.InvariantError{
			Reason: "router: only one guard name (when/if/only/guard/unless/skip/except) may be given per registration",
		})
	}

	return c
}

func (c keyConfig[M]) guard() *guard[M] {
	if len(c.setters) == 0 {
		return nil
	}

	g := &guard[M]{}
	c.setters[0](g)

	return g
}

type routeEntry[M any] struct {
	prefix string
	get    func(M) Model
	set    func(M, Model) M
	update UpdateFunc
}

type keyEntry[M any] struct {
	match func(term.KeyEvent) bool
	fn    ActionFunc[M]
	name  string
	route string
	guard *guard[M]
}

type mouseEntry[M any] struct {
	match func(term.MouseEvent) bool
	fn    ActionFunc[M]
	name  string
	route string
	guard *guard[M]
}

// Router is a builder for a single fractal "bag" update function (spec.md
// §4.6, glossary "Bag"): route registrations for child bags, named
// actions, and guarded key/mouse handlers, frozen into a plain UpdateFunc
// by FromRouter. It follows the same register-then-freeze shape as
// internal/config.Options: mutate a builder through chained calls, then
// consult the assembled, read-only result from the returned closure.
type Router[M any] struct {
	routes     []routeEntry[M]
	actions    map[string]ActionFunc[M]
	keys       []keyEntry[M]
	mice       []mouseEntry[M]
	groupGuard *guard[M]
}

// NewRouter creates an empty Router for parent model type M.
func NewRouter[M any]() *Router[M] {
	return &Router[M]{actions: make(map[string]ActionFunc[M])}
}

// Route registers a child bag at prefix (spec.md §4.6 "route prefix →
// child_module"). get/set project the child's model in and out of the
// parent model M — Go has no structural "head of a tagged union" to
// inspect, so the router needs an explicit accessor pair instead of the
// source's field-path heuristic.
func (r *Router[M]) Route(prefix string, get func(M) Model, set func(M, Model) M, childUpdate UpdateFunc) *Router[M] {
	r.routes = append(r.routes, routeEntry[M]{prefix: prefix, get: get, set: set, update: childUpdate})

	return r
}

// Action names a reusable handler so Key/Mouse can refer to it by name
// instead of a literal closure (spec.md §4.6 "action name → handler").
func (r *Router[M]) Action(name string, fn ActionFunc[M]) *Router[M] {
	r.actions[name] = fn

	return r
}

// Key registers a per-key handler (spec.md §4.6 "keymap"). handler is
// either an ActionFunc[M], a plain func(M) (M, Cmd), or the name of a
// previously- or later-registered Action.
func (r *Router[M]) Key(match func(term.KeyEvent) bool, handler any, opts ...KeyOption[M]) *Router[M] {
	cfg := buildConfig(opts)
	entry := keyEntry[M]{match: match, route: cfg.route, guard: andGuard(r.groupGuard, cfg.guard())}

	switch h := handler.(type) {
	case ActionFunc[M]:
		entry.fn = h
	case func(M) (M, Cmd):
		entry.fn = h
	case string:
		entry.name = h
	default:
		panic(&rterrors.InvariantError{Reason: "router: Key handler must be an ActionFunc, func(M) (M, Cmd), or action name"})
	}

	r.keys = append(r.keys, entry)

	return r
}

// Mouse registers a mouse handler (spec.md §4.6 "mousemap"), matched the
// same way Key is.
func (r *Router[M]) Mouse(match func(term.MouseEvent) bool, handler any, opts ...KeyOption[M]) *Router[M] {
	cfg := buildConfig(opts)
	entry := mouseEntry[M]{match: match, route: cfg.route, guard: andGuard(r.groupGuard, cfg.guard())}

	switch h := handler.(type) {
	case ActionFunc[M]:
		entry.fn = h
	case func(M) (M, Cmd):
		entry.fn = h
	case string:
		entry.name = h
	default:
		panic(&rterrors.InvariantError{Reason: "router: Mouse handler must be an ActionFunc, func(M) (M, Cmd), or action name"})
	}

	r.mice = append(r.mice, entry)

	return r
}

// Group applies opts as a single guard to every Key/Mouse registration
// made inside fn (spec.md §4.6 "guards ... accepted ... in nested blocks
// that apply the guard to every key inside"). Nesting ANDs guards.
func (r *Router[M]) Group(fn func(*Router[M]), opts ...KeyOption[M]) *Router[M] {
	cfg := buildConfig(opts)

	prev := r.groupGuard
	r.groupGuard = andGuard(prev, cfg.guard())
	fn(r)
	r.groupGuard = prev

	return r
}

func (r *Router[M]) resolveKey(entry keyEntry[M]) ActionFunc[M] {
	if entry.fn != nil {
		return entry.fn
	}

	return r.actions[entry.name]
}

func (r *Router[M]) resolveMouse(entry mouseEntry[M]) ActionFunc[M] {
	if entry.fn != nil {
		return entry.fn
	}

	return r.actions[entry.name]
}

// FromRouter freezes the builder into an UpdateFunc implementing spec.md
// §4.6's dispatch order: every registered route is tried via Delegate
// first — unconditionally, regardless of any guard — then the keymap, then
// the mousemap, then the identity fallback (model, None). Route dispatch
// preceding UI dispatch is the key design decision spec.md §4.6 calls out:
// it keeps a guarded-off modal from swallowing a result message meant for
// a route it did not initiate.
func (r *Router[M]) FromRouter() UpdateFunc {
	// Snapshot the registrations so later builder calls do not reach the
	// returned closure.
	r = &Router[M]{
		routes:  slices.Clone(r.routes),
		actions: maps.Clone(r.actions),
		keys:    slices.Clone(r.keys),
		mice:    slices.Clone(r.mice),
	}

	return func(msg Msg, model Model) (Model, Cmd) {
		m := model.(M)

		for _, rt := range r.routes {
			newChild, cmd, matched := Delegate(msg, rt.prefix, rt.update, rt.get(m))
			if matched {
				return rt.set(m, newChild), cmd
			}
		}

		if key, ok := msg.(term.KeyEvent); ok {
			for _, entry := range r.keys {
				if !entry.match(key) || !entry.guard.allows(m) {
					continue
				}

				fn := r.resolveKey(entry)
				if fn == nil {
					continue
				}

				newM, cmd := fn(m)
				if cmd != nil && entry.route != "" {
					cmd = Route(cmd, entry.route)
				}

				return newM, cmd
			}

			return m, nil
		}

		if mouse, ok := msg.(term.MouseEvent); ok {
			for _, entry := range r.mice {
				if !entry.match(mouse) || !entry.guard.allows(m) {
					continue
				}

				fn := r.resolveMouse(entry)
				if fn == nil {
					continue
				}

				newM, cmd := fn(m)
				if cmd != nil && entry.route != "" {
					cmd = Route(cmd, entry.route)
				}

				return newM, cmd
			}

			return m, nil
		}

		return m, nil
	}
}

// KeyRune matches an unmodified rune key press, the common case for
// keymap entries like `"a" → handler`.
func KeyRune(r rune) func(term.KeyEvent) bool {
	return func(k term.KeyEvent) bool { return k.Key == term.KeyRune && k.Rune == r && !k.Ctrl && !k.Alt }
}

// KeyNamed matches a non-printable named key (Enter, Esc, arrows, ...).
func KeyNamed(key term.Key) func(term.KeyEvent) bool {
	return func(k term.KeyEvent) bool { return k.Key == key }
}

// MouseClick matches a left-button click (spec.md §4.6 "click").
func MouseClick() func(term.MouseEvent) bool {
	return func(m term.MouseEvent) bool { return m.Click() }
}

// MouseScrollUp matches an upward wheel scroll.
func MouseScrollUp() func(term.MouseEvent) bool {
	return func(m term.MouseEvent) bool { return m.ScrollUp() }
}

// MouseScrollDown matches a downward wheel scroll.
func MouseScrollDown() func(term.MouseEvent) bool {
	return func(m term.MouseEvent) bool { return m.ScrollDown() }
}
