package shellexec

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunBatch_CapturesOutputAndStatus(t *testing.T) {
	res, err := RunBatch(context.Background(), slog.New(slog.DiscardHandler), "echo out; echo err 1>&2; exit 3")
	require.NoError(t, err)
	require.Equal(t, "out\n", res.Stdout)
	require.Equal(t, "err\n", res.Stderr)
	require.Equal(t, 3, res.Status)
}

func TestRunStreaming_EmitsLinesInOrderPerStream(t *testing.T) {
	var outLines, errLines []string

	status, err := RunStreaming(context.Background(), slog.New(slog.DiscardHandler), "echo a; echo b; echo e 1>&2; exit 7", func(s Stream, line string) {
		switch s {
		case Stdout:
			outLines = append(outLines, line)
		case Stderr:
			errLines = append(errLines, line)
		}
	})

	require.NoError(t, err)
	require.Equal(t, 7, status)
	require.Equal(t, []string{"a\n", "b\n"}, outLines)
	require.Equal(t, []string{"e\n"}, errLines)
}

func TestRunStreaming_NoTrailingNewlineStillEmitted(t *testing.T) {
	var lines []string

	_, err := RunStreaming(context.Background(), nil, "printf no-newline", func(s Stream, line string) {
		lines = append(lines, line)
	})

	require.NoError(t, err)
	require.Equal(t, []string{"no-newline"}, lines)
}
