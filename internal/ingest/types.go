// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package ingest

import (
	"time"
)

// Stats holds the state of one ingest run. It doubles as the resume
// checkpoint: Offset is the byte position after the last committed line.
type Stats struct {
	RunID  string `json:"run_id"`
	Source string `json:"source"`
	Table  Table  `json:"table"`

	// TotalBytes is the size of the source file.
	TotalBytes int64 `json:"total_bytes"`

	// Offset is where a resumed run continues reading.
	Offset int64 `json:"offset"`

	// Lines is the number of lines consumed, blank lines included.
	Lines int64 `json:"lines"`

	// Processed counts records handed to the sink.
	Processed int64 `json:"processed"`

	// Inserted counts rows the sink actually wrote.
	Inserted int64 `json:"inserted"`

	// Skipped counts rows already present and transform-dropped lines.
	Skipped int64 `json:"skipped"`

	// Errors counts malformed or unmappable lines.
	Errors int64 `json:"errors"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Resumed bool `json:"resumed"`
}

// Duration returns the elapsed time of the run.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the share of the source consumed, 0-100.
func (s *Stats) Progress() float64 {
	if s.TotalBytes == 0 {
		return 0
	}
	return float64(s.Offset) / float64(s.TotalBytes) * 100
}

// RecordsPerSecond returns the processing rate.
func (s *Stats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

// Summary is the reportable view of Stats.
type Summary struct {
	Status         string    `json:"status"`
	Source         string    `json:"source"`
	Table          Table     `json:"table"`
	Progress       float64   `json:"progress"`
	Lines          int64     `json:"lines"`
	Processed      int64     `json:"processed"`
	Inserted       int64     `json:"inserted"`
	Skipped        int64     `json:"skipped"`
	Errors         int64     `json:"errors"`
	RecordsPerSec  float64   `json:"records_per_second"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	StartTime      time.Time `json:"start_time"`
	Resumed        bool      `json:"resumed"`
}

// ToSummary converts s, deriving the status from running and EndTime.
func (s *Stats) ToSummary(running bool) *Summary {
	summary := &Summary{
		Source:         s.Source,
		Table:          s.Table,
		Progress:       s.Progress(),
		Lines:          s.Lines,
		Processed:      s.Processed,
		Inserted:       s.Inserted,
		Skipped:        s.Skipped,
		Errors:         s.Errors,
		RecordsPerSec:  s.RecordsPerSecond(),
		ElapsedSeconds: s.Duration().Seconds(),
		StartTime:      s.StartTime,
		Resumed:        s.Resumed,
	}

	switch {
	case running:
		summary.Status = "running"
	case s.EndTime.IsZero():
		summary.Status = "pending"
	default:
		summary.Status = "completed"
	}
	return summary
}
