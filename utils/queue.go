package utils

import (
	"sync"
)

// Queue is a FIFO safe for concurrent use. When created with a capacity
// greater than zero, adding to a full queue drops the oldest item.
type Queue struct {
	lhm      *LinkedHashMap
	capacity int
	m        sync.RWMutex
}

func NewQueue() *Queue {
	return NewBoundedQueue(0)
}

func NewBoundedQueue(capacity int) *Queue {
	return &Queue{
		lhm:      NewLinkedHashMap(),
		capacity: capacity,
	}
}

func (q *Queue) Add(item interface{}) {
	defer q.m.Unlock()
	q.m.Lock()
	q.lhm.PushBack(item)
	q.trim()
}

// AddWithKey replaces any queued item with the same key and moves it to
// the back of the queue.
func (q *Queue) AddWithKey(key string, item interface{}) {
	defer q.m.Unlock()
	q.m.Lock()
	if key != "" {
		q.lhm.PushBackWithCollapseKey(key, item)
	} else {
		q.lhm.PushBack(item)
	}
	q.trim()
}

func (q *Queue) trim() {
	for q.capacity > 0 && q.lhm.Len() > q.capacity {
		q.lhm.Remove(q.lhm.Front())
	}
}

func (q *Queue) Element() interface{} {
	defer q.m.RUnlock()
	q.m.RLock()
	item := q.lhm.Front()
	if item != nil {
		return item.Value
	}
	return nil
}

func (q *Queue) Remove() interface{} {
	defer q.m.Unlock()
	q.m.Lock()
	item := q.lhm.Front()
	if item != nil {
		return q.lhm.Remove(item)
	}
	return nil
}

func (q *Queue) Len() int {
	defer q.m.RUnlock()
	q.m.RLock()
	return q.lhm.Len()
}

// Items returns a copy of the queued items, oldest first.
func (q *Queue) Items() []interface{} {
	defer q.m.RUnlock()
	q.m.RLock()
	items := make([]interface{}, 0, q.lhm.Len())
	for e := q.lhm.Front(); e != nil; e = e.Next() {
		items = append(items, e.Value)
	}
	return items
}
