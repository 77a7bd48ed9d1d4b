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

package kernel

import (
	"fmt"
	"sort"

	"github.com/nviennot/linux-trace-error/pkg/sync"
)

// TasksLimit is the maximum number of live tasks.
const TasksLimit = 1 << 16

// InitTID is the ThreadID given to the first task created by a Kernel.
const InitTID ThreadID = 1

// ThreadID is a task identity, analogous to a pid.
type ThreadID int32

// String implements fmt.Stringer.String.
func (tid ThreadID) String() string {
	return fmt.Sprintf("%d", tid)
}

// A TaskSet holds all tasks belonging to a Kernel.
type TaskSet struct {
	// mu protects all fields below.
	mu sync.RWMutex

	// tasks is the set of live tasks, keyed by ThreadID.
	tasks map[ThreadID]*Task

	// last is the most recently assigned ThreadID. TIDs are assigned by
	// scanning upward from last, skipping IDs still in use, so an ID is
	// only recycled after the space wraps around.
	last ThreadID
}

func (ts *TaskSet) init() {
	ts.tasks = make(map[ThreadID]*Task)
}

// assignTID allocates a ThreadID for t and registers it.
func (ts *TaskSet) assignTID(t *Task) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.tasks) >= TasksLimit {
		return fmt.Errorf("task limit (%d) reached", TasksLimit)
	}
	tid := ts.last
	for {
		tid++
		if tid > TasksLimit {
			tid = InitTID
		}
		if _, ok := ts.tasks[tid]; !ok {
			break
		}
	}
	ts.last = tid
	t.id = tid
	ts.tasks[tid] = t
	return nil
}

// taskExited removes t from the set. After this returns, t's ThreadID may
// be reused and t's record is no longer reachable through the Kernel.
func (ts *TaskSet) taskExited(t *Task) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	delete(ts.tasks, t.id)
}

func (ts *TaskSet) taskWithID(tid ThreadID) *Task {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.tasks[tid]
}

func (ts *TaskSet) liveTasks() []*Task {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	tasks := make([]*Task, 0, len(ts.tasks))
	for _, t := range ts.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].id < tasks[j].id })
	return tasks
}
