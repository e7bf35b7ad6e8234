// Package logtail reads the end of the client log for the logs screen.
//
// Read returns the last N lines of a file in one pass with memory bounded by
// N. Each line is parsed for the level slog wrote it at, in either the text
// ("level=WARN") or JSON ({"level":"WARN"}) format, and Filter narrows a
// tail to a minimum level.
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//	if err != nil {
//		return err
//	}
//	warnings := logtail.Filter(lines, slog.LevelWarn)
package logtail
