package activecmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTable_CancelUnknownHandle(t *testing.T) {
	var tbl Table

	ok, timedOut := tbl.Cancel("missing")
	require.False(t, ok)
	require.False(t, timedOut)
}

func TestTable_CancelStopsPromptly(t *testing.T) {
	var tbl Table

	done := make(chan struct{})
	var cancelled bool
	tbl.Register("h1", func() {
		cancelled = true
		close(done)
	}, done, 50*time.Millisecond)

	ok, timedOut := tbl.Cancel("h1")
	require.True(t, ok)
	require.False(t, timedOut)
	require.True(t, cancelled)
}

func TestTable_CancelTimesOut(t *testing.T) {
	var tbl Table

	done := make(chan struct{})
	tbl.Register("h2", func() {}, done, 10*time.Millisecond)

	ok, timedOut := tbl.Cancel("h2")
	require.True(t, ok)
	require.True(t, timedOut)

	close(done)
}

func TestTable_CancelForeverWaits(t *testing.T) {
	var tbl Table

	done := make(chan struct{})
	tbl.Register("h3", func() {
		go func() {
			time.Sleep(20 * time.Millisecond)
			close(done)
		}()
	}, done, -1)

	ok, timedOut := tbl.Cancel("h3")
	require.True(t, ok)
	require.False(t, timedOut)
}

func TestTable_CancelWithGraceOverridesRegistered(t *testing.T) {
	var tbl Table

	done := make(chan struct{})
	tbl.Register("h5", func() {}, done, time.Hour)

	ok, timedOut := tbl.CancelWithGrace("h5", 10*time.Millisecond)
	require.True(t, ok)
	require.True(t, timedOut)

	close(done)
}

func TestTable_GraceOf(t *testing.T) {
	var tbl Table
	done := make(chan struct{})
	close(done)

	tbl.Register("g1", func() {}, done, 3*time.Second)

	grace, ok := tbl.GraceOf("g1")
	require.True(t, ok)
	require.Equal(t, 3*time.Second, grace)

	_, ok = tbl.GraceOf("missing")
	require.False(t, ok)
}

func TestTable_Handles(t *testing.T) {
	var tbl Table
	done := make(chan struct{})
	close(done)

	tbl.Register("a", func() {}, done, time.Second)
	tbl.Register("b", func() {}, done, time.Second)

	require.ElementsMatch(t, []any{"a", "b"}, tbl.Handles())
}

func TestTable_RemoveAndLen(t *testing.T) {
	var tbl Table
	done := make(chan struct{})
	close(done)

	tbl.Register("h4", func() {}, done, time.Second)
	require.Equal(t, 1, tbl.Len())

	tbl.Remove("h4")
	require.Equal(t, 0, tbl.Len())
}
