package main

import (
	"sort"
	"sync"
)

func NewSessionsMap() *SessionsMap {
	return &SessionsMap{
		m: make(map[*Session]struct{}),
	}
}

type SessionsMap struct {
	mutex sync.RWMutex
	m     map[*Session]struct{}
}

func (sm *SessionsMap) Put(session *Session) {
	defer sm.mutex.Unlock()
	sm.mutex.Lock()
	sm.m[session] = struct{}{}
}

func (sm *SessionsMap) Remove(session *Session) {
	defer sm.mutex.Unlock()
	sm.mutex.Lock()
	delete(sm.m, session)
}

// Values returns the sessions sorted by connection time
func (sm *SessionsMap) Values() []*Session {
	sm.mutex.RLock()
	values := make([]*Session, 0, len(sm.m))
	for s := range sm.m {
		values = append(values, s)
	}
	sm.mutex.RUnlock()

	sort.Slice(values, func(i, j int) bool {
		return values[i].Connected.Before(values[j].Connected)
	})

	return values
}
