package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const auditSubDir = "analysis"

// Record is one audited analysis attempt.
type Record struct {
	At         time.Time `json:"at"`
	TextLength int       `json:"text_length"`
	Label      string    `json:"label,omitempty"`
	Mood       string    `json:"mood,omitempty"`
	Steps      int       `json:"next_steps"`
	Status     int       `json:"status,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

// AuditWriter appends records asynchronously to <base>/<date>/analysis/analysis.jsonl.
type AuditWriter struct {
	baseDir   string
	maxSizeMB int
	writeCh   chan Record
	done      chan struct{}
	closed    atomic.Bool
	wg        sync.WaitGroup

	mu          sync.Mutex
	currentDate string
	logger      *lumberjack.Logger
	now         func() time.Time
}

// NewAuditWriter starts the writer goroutine.
func NewAuditWriter(baseDir string, bufferSize, maxSizeMB int) *AuditWriter {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	w := &AuditWriter{
		baseDir:   baseDir,
		maxSizeMB: maxSizeMB,
		writeCh:   make(chan Record, bufferSize),
		done:      make(chan struct{}),
		now:       time.Now,
	}
	w.wg.Add(1)
	go w.writeLoop()
	return w
}

// Write queues rec. It never blocks; a full buffer drops the record.
func (w *AuditWriter) Write(rec Record) error {
	if w.closed.Load() {
		return errors.New("audit writer is closed")
	}
	select {
	case w.writeCh <- rec:
		return nil
	default:
		slog.Warn("analysis audit buffer full, dropping record")
		return errors.New("buffer full")
	}
}

// Close stops the writer and flushes queued records.
func (w *AuditWriter) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(w.done)
	w.wg.Wait()

	for {
		select {
		case rec := <-w.writeCh:
			w.writeRecord(rec)
			continue
		default:
		}
		break
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.logger != nil {
		return w.logger.Close()
	}
	return nil
}

func (w *AuditWriter) writeLoop() {
	defer w.wg.Done()
	for {
		select {
		case rec := <-w.writeCh:
			w.writeRecord(rec)
		case <-w.done:
			return
		}
	}
}

func (w *AuditWriter) writeRecord(rec Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		slog.Error("analysis audit marshal failed", "error", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	date := w.now().UTC().Format("2006-01-02")
	if date != w.currentDate || w.logger == nil {
		if err := w.rotateForDate(date); err != nil {
			slog.Error("analysis audit rotate failed", "error", err)
			return
		}
	}
	if _, err := w.logger.Write(append(data, '\n')); err != nil {
		slog.Error("analysis audit write failed", "error", err)
	}
}

func (w *AuditWriter) rotateForDate(date string) error {
	if w.logger != nil {
		_ = w.logger.Close()
		w.logger = nil
	}
	dir := filepath.Join(w.baseDir, date, auditSubDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	filename := filepath.Join(dir, "analysis.jsonl")
	w.logger = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    w.maxSizeMB,
		MaxBackups: 30,
		MaxAge:     30,
	}
	w.currentDate = date
	slog.Info("opened analysis audit file", "file", filename)
	return nil
}
