package thicket

import (
	"slices"

	"github.com/ARTM2000/thicket/scene"
)

// task is a suspended continuation waiting for partitions to load.
type task struct {
	waitOn []*scene.Partition
	resume func()
}

func (t *task) ready() bool {
	for _, p := range t.waitOn {
		if !p.IsLoaded() {
			return false
		}
	}
	return true
}

// Scheduler runs suspended resolutions once the partitions they wait on
// have loaded. It is driven by the host's tick and never blocks.
type Scheduler struct {
	tasks []*task
}

// Defer suspends resume until every partition in waitOn is loaded.
func (s *Scheduler) Defer(waitOn []*scene.Partition, resume func()) {
	s.tasks = append(s.tasks, &task{waitOn: slices.Clone(waitOn), resume: resume})
}

// Tick resumes, in scheduling order, every task whose partitions are
// loaded and returns how many ran. Tasks deferred while ticking wait for
// the next tick.
func (s *Scheduler) Tick() int {
	due := s.tasks
	s.tasks = nil

	ran := 0
	var kept []*task
	for _, t := range due {
		if !t.ready() {
			kept = append(kept, t)
			continue
		}
		t.resume()
		ran++
	}
	s.tasks = append(kept, s.tasks...)
	return ran
}

// Pending returns the number of suspended tasks.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// Waiting returns the distinct partitions pending tasks wait on.
func (s *Scheduler) Waiting() []*scene.Partition {
	var out []*scene.Partition
	for _, t := range s.tasks {
		for _, p := range t.waitOn {
			if !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

func (s *Scheduler) reset() { s.tasks = nil }
