package fractal

// Route wraps cmd so every message it eventually produces arrives tagged
// with prefix (spec.md §4.6: `route(command, prefix) = map(command, m ↦
// (prefix, …m))`). A parent's update uses this to label a child's command
// results so they can be routed back with Delegate.
func Route(cmd Cmd, prefix string) Cmd {
	return Map(cmd, func(m Msg) Msg {
		return Routed{Prefix: prefix, Inner: m}
	})
}

// Delegate implements spec.md §4.6's delegate: if msg is a Routed value
// whose Prefix matches prefix, it invokes childUpdate on the unwrapped
// inner message and childModel, re-wrapping any returned command with
// Route so the child's own results keep arriving tagged the same way. It
// reports whether msg matched at all, so a parent can fall through to its
// own keymap/mousemap handling when it did not (spec.md §4.6 "otherwise
// return None so the parent may try other routes").
func Delegate(msg Msg, prefix string, childUpdate UpdateFunc, childModel Model) (newChildModel Model, cmd Cmd, matched bool) {
	routed, ok := msg.(Routed)
	if !ok || routed.Prefix != prefix {
		return childModel, nil, false
	}

	newModel, childCmd := childUpdate(routed.Inner, childModel)
	if childCmd == nil {
		return newModel, nil, true
	}

	return newModel, Route(childCmd, prefix), true
}
