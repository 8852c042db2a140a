// Package statefile implements the cross-process state channel: two small
// JSON documents at well-known paths, exchanged whole (last writer wins) and
// polled by the peer. Writes go through a temp file and rename so a reader
// never observes a partial document; readers fall back to the last known
// good value when the file is transiently absent or malformed.
package statefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"temperature_monitor/internal/models"
)

const fileMode = 0o644

// writeWhole marshals v and atomically replaces path with it.
func writeWhole(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal state document: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(tmp, b, fileMode); err != nil {
		return fmt.Errorf("write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %q: %w", path, err)
	}
	return nil
}

// readWhole unmarshals the whole document at path into v.
func readWhole(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// StatusFile carries the controller's projection: written by the heater
// process every cycle, read by the monitor.
type StatusFile struct {
	mu       sync.Mutex
	path     string
	lastGood *models.ControllerStatus
}

func NewStatusFile(path string) *StatusFile {
	return &StatusFile{path: path}
}

func (f *StatusFile) Write(st models.ControllerStatus) error {
	return writeWhole(f.path, st)
}

// Read returns the current status, or the last known good value when the
// document is absent or unreadable. ok is false only before any value has
// ever been observed.
func (f *StatusFile) Read() (models.ControllerStatus, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var st models.ControllerStatus
	if err := readWhole(f.path, &st); err == nil {
		f.lastGood = &st
		return st, true
	}
	if f.lastGood != nil {
		return *f.lastGood, true
	}
	return models.ControllerStatus{}, false
}

// Temperature returns the controller temperature, nil while unknown. The
// session logger's controller column feeds from this.
func (f *StatusFile) Temperature() *float64 {
	st, ok := f.Read()
	if !ok {
		return nil
	}
	return st.TemperatureC
}

// TargetFile carries the operator's request: written by the monitor, polled
// by the heater process.
type TargetFile struct {
	mu       sync.Mutex
	path     string
	lastGood *models.TargetRequest
}

func NewTargetFile(path string) *TargetFile {
	return &TargetFile{path: path}
}

func (f *TargetFile) Write(req models.TargetRequest) error {
	return writeWhole(f.path, req)
}

// Read returns the latest request, falling back to the last known good one.
func (f *TargetFile) Read() (models.TargetRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req models.TargetRequest
	if err := readWhole(f.path, &req); err == nil {
		f.lastGood = &req
		return req, true
	}
	if f.lastGood != nil {
		return *f.lastGood, true
	}
	return models.TargetRequest{}, false
}
