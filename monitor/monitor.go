// Package monitor publishes generator alerts to any number of observers and
// keeps a short history of them for the admin shell.
package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/d3ce1t/flakeid/utils"

	observer "github.com/imkira/go-observer"
)

type AlertKind int

const (
	AlertClockMovedBackward AlertKind = iota
	AlertCheckpointFailed
	AlertStaleCheckpoint
	AlertClockBehindCheckpoint
)

const DefaultHistorySize = 32

func (k AlertKind) String() string {
	switch k {
	case AlertClockMovedBackward:
		return "clock_moved_backward"
	case AlertCheckpointFailed:
		return "checkpoint_failed"
	case AlertStaleCheckpoint:
		return "stale_checkpoint"
	case AlertClockBehindCheckpoint:
		return "clock_behind_checkpoint"
	default:
		return fmt.Sprintf("alert(%d)", int(k))
	}
}

type Alert struct {
	Kind    AlertKind
	Message string
	Time    time.Time
	Count   int // Times this kind was raised since the monitor started
}

func (a *Alert) String() string {
	return fmt.Sprintf("%v [%v x%v] %v", a.Time.Format(time.RFC3339), a.Kind, a.Count, a.Message)
}

type Monitor struct {
	mu          sync.Mutex
	alertSignal observer.Property
	history     *utils.Queue
	counts      map[AlertKind]int
}

func New(historySize int) *Monitor {
	return &Monitor{
		alertSignal: observer.NewProperty(nil),
		history:     utils.NewBoundedQueue(historySize),
		counts:      make(map[AlertKind]int),
	}
}

// Raise records an alert and notifies observers. Repeated alerts of the same
// kind replace each other in the history.
func (m *Monitor) Raise(kind AlertKind, format string, args ...interface{}) *Alert {

	alert := &Alert{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Time:    time.Now().UTC(),
	}

	defer m.mu.Unlock()
	m.mu.Lock()

	m.counts[kind]++
	alert.Count = m.counts[kind]

	m.history.AddWithKey(kind.String(), alert)
	m.alertSignal.Update(alert)

	return alert
}

// Observe returns a stream positioned at the latest alert. Call Next after
// each receive from Changes.
func (m *Monitor) Observe() observer.Stream {
	return m.alertSignal.Observe()
}

func (m *Monitor) Count(kind AlertKind) int {
	defer m.mu.Unlock()
	m.mu.Lock()
	return m.counts[kind]
}

// Last returns the most recent alert or nil.
func (m *Monitor) Last() *Alert {
	if alert, ok := m.alertSignal.Value().(*Alert); ok {
		return alert
	}
	return nil
}

// History returns the retained alerts, oldest first.
func (m *Monitor) History() []*Alert {
	items := m.history.Items()
	alerts := make([]*Alert, 0, len(items))
	for _, item := range items {
		alerts = append(alerts, item.(*Alert))
	}
	return alerts
}
