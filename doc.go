// Package fractal implements the Tea Runtime: a Model-View-Update (MVU)
// execution engine for terminal user interfaces. Given an initial
// immutable model, a pure view function, and a pure update function, Run
// drives a render/poll/update/dispatch/drain loop, executes side-effecting
// commands concurrently through a small closed command algebra, and
// re-enters update with tagged result messages — all under a
// single-threaded state-transition discipline.
//
// # Basic usage
//
//	type model struct{ n int }
//
//	view := func(m fractal.Model) term.Widget {
//	    return fmt.Sprintf("n = %d", m.(model).n)
//	}
//
//	update := func(msg fractal.Msg, mdl fractal.Model) (fractal.Model, fractal.Cmd) {
//	    m := mdl.(model)
//	    key, ok := msg.(term.KeyEvent)
//	    if !ok {
//	        return m, nil
//	    }
//	    switch {
//	    case key.Q():
//	        return m, fractal.Exit()
//	    case key.Key == term.KeyRune && key.Rune == 'a':
//	        return model{n: m.n + 1}, nil
//	    default:
//	        return m, nil
//	    }
//	}
//
//	final, err := fractal.Run(model{}, view, update, myTerminal)
//
// # Commands
//
// Side effects are described, never performed directly, by values built
// with Exit, System, StreamingSystem, Map, Custom, and Cancel — the closed
// Cmd algebra. The Dispatcher (internal to Run) turns a returned Cmd into
// concurrent work and zero or more inbox messages fed back through update.
//
// # Composition
//
// Route, Delegate, and the Router builder (NewRouter, Router.Route,
// Router.Action, Router.Key, Router.Mouse, Router.Group, Router.FromRouter)
// let a parent bag's update function delegate prefixed messages to child
// bags, enabling recursive ("fractal") composition of independent
// {Model, Update, View} units.
//
// # Scope
//
// The terminal rendering backend, event-source polling, and widget
// construction are external collaborators addressed only through the term
// package's interfaces; fractal implements none of them.
package fractal
