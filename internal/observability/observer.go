// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// StandardObserver records timing and outcome data for pipeline components:
// extraction strategies, the resolver, and store operations.
type StandardObserver struct {
	level  Level
	mu     sync.Mutex
	writer io.Writer
}

// Level controls how much the observer emits.
type Level int

const (
	LevelOff     Level = 0
	LevelMetrics Level = 1
	LevelDebug   Level = 2
)

// NewStandardObserver creates an observer writing JSON records to w.
func NewStandardObserver(level Level, w io.Writer) *StandardObserver {
	return &StandardObserver{level: level, writer: w}
}

// StartTiming returns a function to complete timing for an operation.
func (o *StandardObserver) StartTiming(component, operation, document string) func(success bool, metadata map[string]any) {
	start := time.Now()

	return func(success bool, metadata map[string]any) {
		duration := time.Since(start)

		o.LogOperation(OperationRecord{
			Component:  component,
			Operation:  operation,
			Document:   document,
			DurationMs: duration.Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation writes one operation record. Records are only emitted in
// debug mode; metrics mode keeps timing overhead without output.
func (o *StandardObserver) LogOperation(rec OperationRecord) {
	if o == nil || o.level != LevelDebug {
		return
	}

	rec.Timestamp = time.Now().UTC().Format(time.RFC3339)

	o.mu.Lock()
	defer o.mu.Unlock()
	json.NewEncoder(o.writer).Encode(rec)
}

// OperationRecord is the JSON shape of one observed operation.
type OperationRecord struct {
	Component  string         `json:"component"`
	Operation  string         `json:"operation"`
	Timestamp  string         `json:"timestamp"`
	Document   string         `json:"document,omitempty"`
	DurationMs int64          `json:"duration_ms,omitempty"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
