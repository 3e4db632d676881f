package fractal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuirun/fractal/term"
)

type netModel struct {
	done bool
}

func netUpdate(msg Msg, model Model) (Model, Cmd) {
	m := model.(netModel)
	if _, ok := msg.(string); ok {
		m.done = true
	}

	return m, nil
}

type appModel struct {
	net         netModel
	modalActive bool
	sFired      bool
}

// TestRouter_ModalRobustness implements spec.md §8 scenario 6: a guarded
// keymap must not suppress a matching child route, even while the guard
// that would allow the key handler is false.
func TestRouter_ModalRobustness(t *testing.T) {
	r := NewRouter[appModel]().
		Route("net",
			func(m appModel) Model { return m.net },
			func(m appModel, child Model) appModel { m.net = child.(netModel); return m },
			netUpdate,
		).
		Key(KeyRune('s'), func(m appModel) (appModel, Cmd) {
			m.sFired = true
			return m, nil
		}, When(func(m appModel) bool { return !m.modalActive }))

	update := r.FromRouter()

	start := appModel{modalActive: true}

	newModel, cmd := update(Routed{Prefix: "net", Inner: "done"}, start)
	got := newModel.(appModel)
	require.Nil(t, cmd)
	require.True(t, got.net.done)
	require.False(t, got.sFired)

	newModel, cmd = update(term.KeyEvent{Key: term.KeyRune, Rune: 's'}, start)
	got = newModel.(appModel)
	require.Nil(t, cmd)
	require.False(t, got.sFired)
}

func TestRouter_KeyFiresWhenGuardPasses(t *testing.T) {
	r := NewRouter[appModel]().
		Key(KeyRune('s'), func(m appModel) (appModel, Cmd) {
			m.sFired = true
			return m, nil
		}, When(func(m appModel) bool { return !m.modalActive }))

	update := r.FromRouter()

	newModel, _ := update(term.KeyEvent{Key: term.KeyRune, Rune: 's'}, appModel{modalActive: false})
	require.True(t, newModel.(appModel).sFired)
}

func TestRouter_GuardAliasesAreEquivalent(t *testing.T) {
	cases := []KeyOption[appModel]{
		When(func(m appModel) bool { return true }),
		If(func(m appModel) bool { return true }),
		Only(func(m appModel) bool { return true }),
		Guard(func(m appModel) bool { return true }),
	}

	for _, opt := range cases {
		r := NewRouter[appModel]().Key(KeyRune('x'), func(m appModel) (appModel, Cmd) {
			m.sFired = true
			return m, nil
		}, opt)

		update := r.FromRouter()
		newModel, _ := update(term.KeyEvent{Key: term.KeyRune, Rune: 'x'}, appModel{})
		require.True(t, newModel.(appModel).sFired)
	}

	negCases := []KeyOption[appModel]{
		Unless(func(m appModel) bool { return true }),
		Skip(func(m appModel) bool { return true }),
		Except(func(m appModel) bool { return true }),
	}

	for _, opt := range negCases {
		r := NewRouter[appModel]().Key(KeyRune('x'), func(m appModel) (appModel, Cmd) {
			m.sFired = true
			return m, nil
		}, opt)

		update := r.FromRouter()
		newModel, _ := update(term.KeyEvent{Key: term.KeyRune, Rune: 'x'}, appModel{})
		require.False(t, newModel.(appModel).sFired)
	}
}

func TestRouter_TwoGuardsInOneRegistrationPanics(t *testing.T) {
	require.Panics(t, func() {
		NewRouter[appModel]().Key(KeyRune('x'), func(m appModel) (appModel, Cmd) { return m, nil },
			When(func(m appModel) bool { return true }),
			Unless(func(m appModel) bool { return true }),
		)
	})
}

func TestRouter_GroupAppliesGuardToEveryKeyInside(t *testing.T) {
	r := NewRouter[appModel]()
	r.Group(func(g *Router[appModel]) {
		g.Key(KeyRune('a'), func(m appModel) (appModel, Cmd) { m.sFired = true; return m, nil })
		g.Key(KeyRune('b'), func(m appModel) (appModel, Cmd) { m.sFired = true; return m, nil })
	}, When(func(m appModel) bool { return !m.modalActive }))

	update := r.FromRouter()

	newModel, _ := update(term.KeyEvent{Key: term.KeyRune, Rune: 'a'}, appModel{modalActive: true})
	require.False(t, newModel.(appModel).sFired)

	newModel, _ = update(term.KeyEvent{Key: term.KeyRune, Rune: 'b'}, appModel{modalActive: false})
	require.True(t, newModel.(appModel).sFired)
}

func TestRouter_ActionByName(t *testing.T) {
	r := NewRouter[appModel]().
		Action("fire", func(m appModel) (appModel, Cmd) {
			m.sFired = true
			return m, nil
		}).
		Key(KeyRune('f'), "fire")

	update := r.FromRouter()
	newModel, _ := update(term.KeyEvent{Key: term.KeyRune, Rune: 'f'}, appModel{})
	require.True(t, newModel.(appModel).sFired)
}

func TestRouter_KeyHandlerCommandWrappedWithRoute(t *testing.T) {
	r := NewRouter[appModel]().
		Key(KeyRune('r'), func(m appModel) (appModel, Cmd) {
			return m, System("echo hi", "t")
		}, WithRoute[appModel]("net"))

	update := r.FromRouter()
	_, cmd := update(term.KeyEvent{Key: term.KeyRune, Rune: 'r'}, appModel{})

	mapped, ok := cmd.(MappedCmd)
	require.True(t, ok)
	sys, ok := mapped.Inner.(SystemCmd)
	require.True(t, ok)
	require.Equal(t, "t", sys.Tag)
}

func TestRouter_MouseClick(t *testing.T) {
	r := NewRouter[appModel]().
		Mouse(MouseClick(), func(m appModel) (appModel, Cmd) {
			m.sFired = true
			return m, nil
		})

	update := r.FromRouter()
	newModel, _ := update(term.MouseEvent{Button: term.MouseLeft}, appModel{})
	require.True(t, newModel.(appModel).sFired)
}

func TestRouter_NoMatchReturnsModelUnchanged(t *testing.T) {
	r := NewRouter[appModel]()
	update := r.FromRouter()

	m := appModel{modalActive: true}
	newModel, cmd := update("unrelated", m)
	require.Equal(t, m, newModel)
	require.Nil(t, cmd)
}
