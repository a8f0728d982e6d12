package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for the relay loop and the
// admin HTTP surface.
type Metrics struct {
	mu             sync.Mutex
	updateCount    map[string]int64
	deliveryCount  map[string]int64
	deliveryErrors int64
	requestCount   map[string]int64
	errorCount     map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		updateCount:   make(map[string]int64),
		deliveryCount: make(map[string]int64),
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
	}
}

// RecordUpdate counts one processed inbound update by content kind.
func (m *Metrics) RecordUpdate(kind string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCount[kind]++
}

// RecordDelivery counts an outbound delivery attempt by direction.
func (m *Metrics) RecordDelivery(direction string, ok bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveryCount[direction]++
	if !ok {
		m.deliveryErrors++
	}
}

// RecordRequest increments counters for HTTP requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments HTTP error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot returns copies of the counters for the metrics endpoint.
func (m *Metrics) Snapshot() (updates, deliveries map[string]int64, deliveryErrors int64) {
	if m == nil {
		return nil, nil, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	updates = make(map[string]int64, len(m.updateCount))
	for k, v := range m.updateCount {
		updates[k] = v
	}
	deliveries = make(map[string]int64, len(m.deliveryCount))
	for k, v := range m.deliveryCount {
		deliveries[k] = v
	}
	return updates, deliveries, m.deliveryErrors
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
