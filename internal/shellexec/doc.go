// Package shellexec runs a System command's shell invocation (spec.md §4.4,
// §6): `sh -c <command_line>`, with batch and streaming read modes. It uses
// the same dual bufio.Scanner-per-stream shape as a long-lived JSON-RPC
// child transport, adapted to a one-shot shell command whose output is
// opaque text, not framed messages. Every entry point takes a caller-tagged
// *slog.Logger and wraps a spawn failure in internal/errors.ExecError
// before returning it.
package shellexec
