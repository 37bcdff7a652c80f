package crawler

import (
	"container/heap"
	"sync"
)

// task is one unit of crawl work: a canonical URL and the depth it was
// discovered at.
type task struct {
	url   string
	depth int
}

// frontier is a thread-safe queue of pending crawl tasks ordered by depth,
// so the crawl proceeds breadth-first even with many workers racing. It also
// owns the visited set: shouldVisit is the single admission point for URLs.
type frontier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pq      taskQueue
	visited map[string]struct{}
	closed  bool
}

func newFrontier() *frontier {
	f := &frontier{
		pq:      make(taskQueue, 0, 256),
		visited: make(map[string]struct{}),
	}
	f.cond = sync.NewCond(&f.mu)
	heap.Init(&f.pq)
	return f
}

// shouldVisit records url as visited and reports whether the caller was the
// first to claim it. Under concurrency exactly one caller per URL sees true;
// everyone after sees false.
func (f *frontier) shouldVisit(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, seen := f.visited[url]; seen {
		return false
	}
	f.visited[url] = struct{}{}
	return true
}

// push enqueues a task. Pushes after close are dropped.
func (f *frontier) push(t task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	heap.Push(&f.pq, t)
	f.cond.Signal()
}

// pop blocks until a task is available or the frontier is closed.
// The second return value is false once the frontier is closed and drained.
func (f *frontier) pop() (task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.pq.Len() == 0 && !f.closed {
		f.cond.Wait()
	}
	if f.pq.Len() == 0 {
		return task{}, false
	}
	return heap.Pop(&f.pq).(task), true
}

func (f *frontier) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pq.Len()
}

// close unblocks all waiting pop calls. Remaining tasks can still be drained.
func (f *frontier) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
}

type taskQueue []task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	// Shallower pages first.
	return q[i].depth < q[j].depth
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) {
	*q = append(*q, x.(task))
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	*q = old[:n-1]
	return t
}
