// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

const defaultMaxLineBytes = 16 << 20

// lineReader yields JSONL lines and tracks the byte offset just past the
// most recent one, which is what a checkpoint stores.
type lineReader struct {
	sc     *bufio.Scanner
	offset int64
}

func newLineReader(r io.Reader, offset int64, maxLine int) *lineReader {
	if maxLine <= 0 {
		maxLine = defaultMaxLineBytes
	}
	lr := &lineReader{offset: offset}
	lr.sc = bufio.NewScanner(r)
	lr.sc.Buffer(make([]byte, 0, min(64<<10, maxLine)), maxLine)
	lr.sc.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := bufio.ScanLines(data, atEOF)
		lr.offset += int64(advance)
		return advance, token, err
	})
	return lr
}

// Next returns the next line. The slice is only valid until the next call.
func (lr *lineReader) Next() ([]byte, bool) {
	if !lr.sc.Scan() {
		return nil, false
	}
	return lr.sc.Bytes(), true
}

// Offset is the position after the last line returned.
func (lr *lineReader) Offset() int64 {
	return lr.offset
}

func (lr *lineReader) Err() error {
	if err := lr.sc.Err(); err != nil {
		return fmt.Errorf("read line: %w", err)
	}
	return nil
}

// DecodeRecord parses one JSON object line.
func DecodeRecord(line []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode record: not an object")
	}

	rec := make(Record, len(raw))
	for k, v := range raw {
		rec[k] = NewValue(v)
	}
	return rec, nil
}
