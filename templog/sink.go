// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package templog

import (
	"fmt"
	"io"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink accepts one formatted line per successful reading. Implementations
// own the file lifecycle; the logger only appends.
type Sink interface {
	AppendLine(line string) error
}

// FileSink appends lines to a size capped rolling file. The zero value is
// not usable; construct with NewFileSink and Close when finished.
type FileSink struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewFileSink returns a sink appending to path. The file rolls over when
// it exceeds maxSizeMB, keeping maxBackups old files, so an indefinitely
// running logger cannot fill the storage. Parent directories must already
// exist; mounting the storage is the caller's responsibility.
func NewFileSink(path string, maxSizeMB, maxBackups int) *FileSink {
	return &FileSink{w: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}}
}

// AppendLine writes line followed by a newline. Implements Sink.
func (s *FileSink) AppendLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return fmt.Errorf("templog: append: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
