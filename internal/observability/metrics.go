package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	ticketCount  map[string]int64
	toolCount    map[string]int64
	oracleCount  map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		ticketCount:  make(map[string]int64),
		toolCount:    make(map[string]int64),
		oracleCount:  make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordTicket counts processed tickets by terminal status.
func (m *Metrics) RecordTicket(status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticketCount[status]++
}

// RecordToolCall counts tool invocations by tool and outcome.
func (m *Metrics) RecordToolCall(tool string, success bool) {
	if m == nil {
		return
	}
	key := tool + "|" + strconv.FormatBool(success)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toolCount[key]++
}

// RecordOracleCall counts reasoning-oracle calls by operation and outcome.
func (m *Metrics) RecordOracleCall(operation string, success bool) {
	if m == nil {
		return
	}
	key := operation + "|" + strconv.FormatBool(success)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.oracleCount[key]++
}

// TicketCount returns the counter for a terminal status.
func (m *Metrics) TicketCount(status string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticketCount[status]
}
