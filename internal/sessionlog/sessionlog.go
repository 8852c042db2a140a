package sessionlog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"temperature_monitor/internal/models"
)

// Reported signals for the no-session paths. Callers surface these to the
// operator instead of treating them as faults.
var (
	ErrNotLogging     = errors.New("no active logging session")
	ErrAlreadyLogging = errors.New("a logging session is already active")
)

const (
	// Sentinel written for a column whose probe is offline or missing.
	sentinelNC = "NC"

	controllerColumn = "Heater Thermistor (C)"

	filePrefix = "temperature_log_"
	fileStamp  = "2006-01-02_15-04-05"

	dirMode = 0o755
)

// Logger manages at most one append-only CSV session at a time. The column
// order is frozen when the session starts; rows always align to the header
// positionally, with NC filling absent or offline probes.
type Logger struct {
	mu     sync.Mutex
	folder string
	now    func() time.Time

	// session state, nil/empty when idle
	file              *os.File
	w                 *bufio.Writer
	filename          string
	columns           []string // probe ids in header order
	includeController bool
}

func New(folder string) *Logger {
	return &Logger{folder: folder, now: time.Now}
}

// Start opens a new session file and writes the header row. The column order
// is the sorted probe ids from the snapshot; header cells show display names.
// On any failure no partial session state is left behind.
func (l *Logger) Start(snapshot []models.Probe, includeController bool) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return "", ErrAlreadyLogging
	}

	if err := os.MkdirAll(l.folder, dirMode); err != nil {
		return "", fmt.Errorf("create log folder %q: %w", l.folder, err)
	}

	filename := filePrefix + l.now().Format(fileStamp) + ".csv"
	path := filepath.Join(l.folder, filename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open session file %q: %w", path, err)
	}

	// Snapshot comes pre-sorted by id from the registry. The order is
	// recorded now; later snapshots may contain a different probe set.
	columns := make([]string, 0, len(snapshot))
	header := make([]string, 0, len(snapshot)+2)
	header = append(header, "Timestamp")
	for _, p := range snapshot {
		columns = append(columns, p.ID)
		header = append(header, headerCell(p))
	}
	if includeController {
		header = append(header, controllerColumn)
	}

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(strings.Join(header, ",") + "\n"); err == nil {
		err = w.Flush()
	}
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write header to %q: %w", path, err)
	}

	l.file = f
	l.w = w
	l.filename = filename
	l.columns = columns
	l.includeController = includeController
	return filename, nil
}

// headerCell prefers the display name, falling back to a derived one so the
// header never contains an empty cell.
func headerCell(p models.Probe) string {
	if p.Name != "" {
		return p.Name
	}
	return "Probe " + p.ID[:min(8, len(p.ID))]
}

// Append writes one row in the frozen column order and flushes it so a crash
// loses at most the final unflushed row. Offline or since-removed probes emit
// the NC sentinel; columns are never reordered mid-session.
func (l *Logger) Append(snapshot []models.Probe, controllerTemp *float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return ErrNotLogging
	}

	byID := make(map[string]models.Probe, len(snapshot))
	for _, p := range snapshot {
		byID[p.ID] = p
	}

	row := make([]string, 0, len(l.columns)+2)
	row = append(row, l.now().Format(time.RFC3339))
	for _, id := range l.columns {
		p, ok := byID[id]
		if ok && p.Status == models.StatusOnline {
			row = append(row, fmt.Sprintf("%.2f", p.TemperatureC))
		} else {
			row = append(row, sentinelNC)
		}
	}
	if l.includeController {
		if controllerTemp != nil {
			row = append(row, fmt.Sprintf("%.2f", *controllerTemp))
		} else {
			row = append(row, sentinelNC)
		}
	}

	if _, err := l.w.WriteString(strings.Join(row, ",") + "\n"); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	if err := l.w.Flush(); err != nil {
		return fmt.Errorf("flush row: %w", err)
	}
	return l.file.Sync()
}

// Stop closes the session and returns its filename. Stopping with no active
// session reports ErrNotLogging rather than faulting.
func (l *Logger) Stop() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return "", ErrNotLogging
	}

	flushErr := l.w.Flush()
	closeErr := l.file.Close()

	filename := l.filename
	l.file = nil
	l.w = nil
	l.filename = ""
	l.columns = nil
	l.includeController = false

	if flushErr != nil {
		return filename, fmt.Errorf("flush on stop: %w", flushErr)
	}
	if closeErr != nil {
		return filename, fmt.Errorf("close on stop: %w", closeErr)
	}
	return filename, nil
}

// Active reports whether a session is open.
func (l *Logger) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file != nil
}

// Filename returns the current session's file name, empty when idle.
func (l *Logger) Filename() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filename
}

// Folder returns the configured log folder.
func (l *Logger) Folder() string { return l.folder }
