package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Line is one log line with the level it was written at.
type Line struct {
	Text  string
	Level slog.Level
	// Known is false when no level could be parsed.
	Known bool
}

// Read returns the last maxLines lines of the file at path, oldest first. A
// missing file is an empty log. maxLines <= 0 reads everything.
func Read(path string, maxLines int) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var tail []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		tail = append(tail, scanner.Text())
		// Compact once the window has doubled so memory stays O(maxLines).
		if maxLines > 0 && len(tail) >= 2*maxLines {
			tail = append(tail[:0], tail[len(tail)-maxLines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if maxLines > 0 && len(tail) > maxLines {
		tail = tail[len(tail)-maxLines:]
	}

	lines := make([]Line, len(tail))
	for i, text := range tail {
		lines[i] = Parse(text)
	}
	return lines, nil
}

// Parse extracts the level of a slog text or JSON line.
func Parse(text string) Line {
	line := Line{Text: text}
	raw, ok := levelField(text)
	if !ok {
		return line
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return line
	}
	line.Level = level
	line.Known = true
	return line
}

func levelField(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		var entry struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal([]byte(trimmed), &entry); err != nil || entry.Level == "" {
			return "", false
		}
		return entry.Level, true
	}
	for _, field := range strings.Fields(trimmed) {
		if value, ok := strings.CutPrefix(field, "level="); ok {
			return value, true
		}
	}
	return "", false
}

// Filter keeps lines at or above min. Lines without a level are kept so
// continuation output is not lost.
func Filter(lines []Line, min slog.Level) []Line {
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		if !line.Known || line.Level >= min {
			out = append(out, line)
		}
	}
	return out
}
