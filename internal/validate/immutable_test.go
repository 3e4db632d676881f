package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int
}

func TestImmutable_Values(t *testing.T) {
	require.NoError(t, Immutable(nil))
	require.NoError(t, Immutable(42))
	require.NoError(t, Immutable("hello"))
	require.NoError(t, Immutable(point{X: 1, Y: 2}))
	require.NoError(t, Immutable([3]int{1, 2, 3}))
	require.NoError(t, Immutable([]point{{X: 1}, {X: 2}}))
}

func TestImmutable_RejectsPointer(t *testing.T) {
	x := 5
	require.Error(t, Immutable(&x))
}

func TestImmutable_RejectsNonEmptyMap(t *testing.T) {
	require.Error(t, Immutable(map[string]int{"a": 1}))
	require.NoError(t, Immutable(map[string]int{}))
}

func TestImmutable_RejectsChanAndFunc(t *testing.T) {
	require.Error(t, Immutable(make(chan int)))
	require.Error(t, Immutable(func() {}))
}

func TestImmutable_RecursesIntoStructFields(t *testing.T) {
	type bad struct {
		Inner *point
	}

	x := point{}
	require.Error(t, Immutable(bad{Inner: &x}))
	require.NoError(t, Immutable(bad{Inner: nil}))
}

func TestImmutable_NilInterfaceIsFine(t *testing.T) {
	var v any
	require.NoError(t, Immutable(v))
}
