package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

// JSONLConfig configures the rotating JSON-lines sender.
type JSONLConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// JSONLSender appends one JSON record per line and rotates the file by size.
type JSONLSender struct {
	out  *lumberjack.Logger
	path string
}

// NewJSONLSender creates the parent directory of cfg.Path if needed.
func NewJSONLSender(cfg JSONLConfig) (*JSONLSender, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("jsonl: path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return &JSONLSender{out: lj, path: cfg.Path}, nil
}

// Send writes the event as a single line.
func (s *JSONLSender) Send(ev coretelemetry.Event) error {
	b, err := json.Marshal(ev.Record())
	if err != nil {
		return err
	}
	_, err = s.out.Write(append(b, '\n'))
	return err
}

// Query reads the current file and its rotated backups, oldest first.
func (s *JSONLSender) Query(q Query) ([]coretelemetry.Record, error) {
	return QueryJSONL(s.path, q)
}

// Close closes the current file.
func (s *JSONLSender) Close() error { return s.out.Close() }

// QueryJSONL reads records written by a JSONLSender at path without opening
// it for writing. Lines that do not decode are skipped.
func QueryJSONL(path string, q Query) ([]coretelemetry.Record, error) {
	files, err := jsonlFiles(path)
	if err != nil {
		return nil, err
	}
	var res []coretelemetry.Record
	for _, f := range files {
		file, err := os.Open(f)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var r coretelemetry.Record
			if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
				continue
			}
			if q.Match(r) {
				res = append(res, r)
			}
		}
		_ = file.Close()
	}
	return res, nil
}

// backupTimeFormat is the timestamp lumberjack puts in rotated file names.
const backupTimeFormat = "2006-01-02T15-04-05.000"

// jsonlFiles lists the rotated backups of path, oldest first, followed by
// path itself. Other files sharing the name prefix are ignored.
func jsonlFiles(path string) ([]string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	matches, err := filepath.Glob(base + "-*" + ext)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		ts := strings.TrimSuffix(strings.TrimPrefix(m, base+"-"), ext)
		if _, err := time.Parse(backupTimeFormat, ts); err == nil {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return append(files, path), nil
}
