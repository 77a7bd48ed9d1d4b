// Copyright 2026 The linux-trace-error Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sync provides synchronization primitives not found in the
// standard library.
package sync

import (
	"runtime"
	"sync/atomic"
)

// SeqCount is a synchronization primitive for optimistic reader/writer
// synchronization in cases where readers can work with stale data and
// therefore do not need to block writers.
//
// Compared to sync/atomic, SeqCount:
//
//   - Supports arbitrary-sized protected state; atomic package types are
//     limited to machine words.
//
//   - Is significantly cheaper on the writer side when writers are rare and
//     readers retry, since writers never wait for readers.
//
// Reads of protected fields inside a reader critical section must still be
// individually atomic if they can race with a writer; ReadOk only tells the
// reader whether the values it observed form a consistent set.
//
// A SeqCount must not be copied after first use.
type SeqCount struct {
	// epoch is incremented by BeginWrite and EndWrite, such that epoch is
	// odd if a writer critical section is active, and a read from data
	// protected by this SeqCount is atomic iff epoch is the same even
	// value before and after the read.
	epoch atomic.Uint32
}

// SeqCountEpoch tracks writer critical sections in a SeqCount.
type SeqCountEpoch uint32

// BeginRead indicates the beginning of a reader critical section. Reader
// critical sections DO NOT BLOCK writer critical sections, so operations in
// a reader critical section may race with writer critical sections.
// Races are detected by ReadOk at the end of the reader critical section.
//
// In most cases, callers should use the pattern:
//
//	for {
//		epoch := seq.BeginRead()
//		// read atomically-accessed state
//		if seq.ReadOk(epoch) {
//			break
//		}
//	}
func (s *SeqCount) BeginRead() SeqCountEpoch {
	if epoch := s.epoch.Load(); epoch&1 == 0 {
		return SeqCountEpoch(epoch)
	}
	return s.beginReadSlow()
}

func (s *SeqCount) beginReadSlow() SeqCountEpoch {
	i := 0
	for {
		if i < 10 {
			i++
		} else {
			runtime.Gosched()
		}
		if epoch := s.epoch.Load(); epoch&1 == 0 {
			return SeqCountEpoch(epoch)
		}
	}
}

// ReadOk returns true if the reader critical section initiated by a
// previous call to BeginRead that returned epoch did not race with any
// writer critical sections.
func (s *SeqCount) ReadOk(epoch SeqCountEpoch) bool {
	return s.epoch.Load() == uint32(epoch)
}

// BeginWrite indicates the beginning of a writer critical section.
//
// SeqCount does not support concurrent writer critical sections; clients
// with concurrent writers must synchronize them using e.g. sync.Mutex.
func (s *SeqCount) BeginWrite() {
	if epoch := s.epoch.Add(1); epoch&1 == 0 {
		panic("SeqCount.BeginWrite during writer critical section")
	}
}

// EndWrite ends the effect of a preceding BeginWrite.
func (s *SeqCount) EndWrite() {
	if epoch := s.epoch.Add(1); epoch&1 != 0 {
		panic("SeqCount.EndWrite outside writer critical section")
	}
}
