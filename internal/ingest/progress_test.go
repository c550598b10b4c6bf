// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package ingest

import (
	"context"
	"testing"
	"time"
)

func testProgressTracker(t *testing.T, progress ProgressTracker) {
	t.Helper()
	ctx := context.Background()

	loaded, err := progress.Load(ctx, TableProducts, "/data/a.jsonl")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != nil {
		t.Fatalf("Load() before Save = %+v, want nil", loaded)
	}

	stats := &Stats{
		Table:     TableProducts,
		Source:    "/data/a.jsonl",
		Offset:    4096,
		Lines:     40,
		Processed: 38,
		Inserted:  30,
		Skipped:   8,
		Errors:    2,
		StartTime: time.Now().Add(-time.Minute).UTC(),
	}
	if err := progress.Save(ctx, stats); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err = progress.Load(ctx, TableProducts, "/data/a.jsonl")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil, want saved stats")
	}
	if loaded.Offset != 4096 || loaded.Inserted != 30 || loaded.Errors != 2 {
		t.Errorf("Offset, Inserted, Errors = %d, %d, %d, want 4096, 30, 2", loaded.Offset, loaded.Inserted, loaded.Errors)
	}
	if !loaded.StartTime.Equal(stats.StartTime) {
		t.Errorf("StartTime = %v, want %v", loaded.StartTime, stats.StartTime)
	}

	// Keys are per table and per source.
	if other, _ := progress.Load(ctx, TableReviews, "/data/a.jsonl"); other != nil {
		t.Errorf("Load(reviews) = %+v, want nil", other)
	}
	if other, _ := progress.Load(ctx, TableProducts, "/data/b.jsonl"); other != nil {
		t.Errorf("Load(other source) = %+v, want nil", other)
	}

	if err := progress.Clear(ctx, TableProducts, "/data/a.jsonl"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if loaded, _ := progress.Load(ctx, TableProducts, "/data/a.jsonl"); loaded != nil {
		t.Errorf("Load() after Clear = %+v, want nil", loaded)
	}
	if err := progress.Clear(ctx, TableProducts, "/data/a.jsonl"); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestInMemoryProgress(t *testing.T) {
	testProgressTracker(t, NewInMemoryProgress())
}

func TestBadgerProgress(t *testing.T) {
	progress, db, err := OpenBadgerProgress(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadgerProgress() error = %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	testProgressTracker(t, progress)
}

func TestOpenProgress(t *testing.T) {
	mem, closeMem, err := OpenProgress("")
	if err != nil {
		t.Fatalf("OpenProgress(\"\") error = %v", err)
	}
	if _, ok := mem.(*InMemoryProgress); !ok {
		t.Errorf("OpenProgress(\"\") = %T, want *InMemoryProgress", mem)
	}
	if err := closeMem(); err != nil {
		t.Errorf("close in-memory = %v", err)
	}

	disk, closeDisk, err := OpenProgress(t.TempDir())
	if err != nil {
		t.Fatalf("OpenProgress(dir) error = %v", err)
	}
	if _, ok := disk.(*BadgerProgress); !ok {
		t.Errorf("OpenProgress(dir) = %T, want *BadgerProgress", disk)
	}
	if err := closeDisk(); err != nil {
		t.Errorf("close badger = %v", err)
	}
}

func TestStats(t *testing.T) {
	start := time.Now().Add(-10 * time.Second)
	stats := &Stats{
		TotalBytes: 1000,
		Offset:     250,
		Processed:  100,
		StartTime:  start,
		EndTime:    start.Add(10 * time.Second),
	}

	if got := stats.Progress(); got != 25 {
		t.Errorf("Progress() = %v, want 25", got)
	}
	if got := stats.Duration(); got != 10*time.Second {
		t.Errorf("Duration() = %v, want 10s", got)
	}
	if got := stats.RecordsPerSecond(); got != 10 {
		t.Errorf("RecordsPerSecond() = %v, want 10", got)
	}
	if got := (&Stats{}).Progress(); got != 0 {
		t.Errorf("empty Progress() = %v, want 0", got)
	}
}

func TestStats_ToSummary(t *testing.T) {
	tests := []struct {
		name    string
		stats   Stats
		running bool
		want    string
	}{
		{"running", Stats{StartTime: time.Now()}, true, "running"},
		{"pending", Stats{}, false, "pending"},
		{"completed", Stats{StartTime: time.Now(), EndTime: time.Now()}, false, "completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.ToSummary(tt.running).Status; got != tt.want {
				t.Errorf("Status = %q, want %q", got, tt.want)
			}
		})
	}
}
