package schedule

import "container/heap"

// scheduledJob is a Job paired with its Trigger and the next run time.
type scheduledJob struct {
	job         Job
	trigger     Trigger
	nextRunTime int64
	index       int
}

// priorityQueue implements heap.Interface, ordered by the next run time.
type priorityQueue []*scheduledJob

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].nextRunTime < pq[j].nextRunTime
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*scheduledJob)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// jobQueue is a min-heap of scheduled jobs. It is not safe for
// concurrent use.
type jobQueue struct {
	items priorityQueue
}

func newJobQueue() *jobQueue {
	return &jobQueue{items: priorityQueue{}}
}

func (q *jobQueue) push(job *scheduledJob) {
	heap.Push(&q.items, job)
}

func (q *jobQueue) pop() (*scheduledJob, error) {
	if len(q.items) == 0 {
		return nil, ErrQueueEmpty
	}
	return heap.Pop(&q.items).(*scheduledJob), nil
}

func (q *jobQueue) head() (*scheduledJob, error) {
	if len(q.items) == 0 {
		return nil, ErrQueueEmpty
	}
	return q.items[0], nil
}

func (q *jobQueue) size() int {
	return len(q.items)
}
