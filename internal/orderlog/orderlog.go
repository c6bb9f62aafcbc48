// Package orderlog appends one NDJSON record per emitted order, tagged with
// a run identifier so multiple runs can share a file.
package orderlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	RunID    string    `json:"run_id"`
	SimTime  time.Time `json:"sim_time"`
	Agent    string    `json:"agent"`
	Strategy string    `json:"strategy"`
	Symbol   string    `json:"symbol"`
	Side     string    `json:"side"`
	Qty      int       `json:"qty"`
	Market   bool      `json:"market"`
	Limit    int64     `json:"limit,omitempty"`
}

type Logger struct {
	runID  string
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

func New(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Logger{
		runID:  uuid.NewString(),
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (l *Logger) RunID() string {
	return l.runID
}

func (l *Logger) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.RunID = l.runID
	payload, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal order entry: %v\n", err)
		return
	}
	if _, err := l.writer.Write(append(payload, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write order entry: %v\n", err)
	}
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writer.Flush(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}
