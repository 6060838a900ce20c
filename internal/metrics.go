package internal

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers tokenizer statistics. Counters are atomic so a single
// collector can be shared by parsers running on different goroutines; each
// parser itself stays single-threaded.
type Collector struct {
	totalTokens      int64
	bytesConsumed    int64
	documents        int64
	failedDocuments  int64
	overflows        int64
	malformedNumbers int64
	totalParseTime   int64
	maxParseTime     int64
	tokensByKind     sync.Map
	conversions      sync.Map
	errorsByType     sync.Map
	startTime        time.Time
}

// NewCollector creates a new stats collector
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// RecordToken records one produced token of the given kind
func (c *Collector) RecordToken(kind string) {
	atomic.AddInt64(&c.totalTokens, 1)
	incrementCounter(&c.tokensByKind, kind)
}

// RecordConversion records a numeric conversion request by target type
func (c *Collector) RecordConversion(target string) {
	incrementCounter(&c.conversions, target)
}

// RecordOverflow records a rejected narrowing conversion
func (c *Collector) RecordOverflow() {
	atomic.AddInt64(&c.overflows, 1)
}

// RecordMalformedNumber records a numeric text that could not be converted
func (c *Collector) RecordMalformedNumber() {
	atomic.AddInt64(&c.malformedNumbers, 1)
}

// RecordBytes adds to the consumed input byte count
func (c *Collector) RecordBytes(n int64) {
	if n > 0 {
		atomic.AddInt64(&c.bytesConsumed, n)
	}
}

// RecordDocument records a fully tokenized (or failed) input
func (c *Collector) RecordDocument(duration time.Duration, success bool) {
	atomic.AddInt64(&c.documents, 1)
	if !success {
		atomic.AddInt64(&c.failedDocuments, 1)
	}
	if ns := duration.Nanoseconds(); ns > 0 {
		atomic.AddInt64(&c.totalParseTime, ns)
		updateMax(&c.maxParseTime, ns)
	}
}

// RecordError records an error by type
func (c *Collector) RecordError(errorType string) {
	incrementCounter(&c.errorsByType, errorType)
}

// Snapshot returns the current statistics
func (c *Collector) Snapshot() Stats {
	docs := atomic.LoadInt64(&c.documents)
	total := atomic.LoadInt64(&c.totalParseTime)

	var avg time.Duration
	if docs > 0 {
		avg = time.Duration(total / docs)
	}

	return Stats{
		TotalTokens:      atomic.LoadInt64(&c.totalTokens),
		BytesConsumed:    atomic.LoadInt64(&c.bytesConsumed),
		Documents:        docs,
		FailedDocuments:  atomic.LoadInt64(&c.failedDocuments),
		Overflows:        atomic.LoadInt64(&c.overflows),
		MalformedNumbers: atomic.LoadInt64(&c.malformedNumbers),
		TotalParseTime:   time.Duration(total),
		AvgParseTime:     avg,
		MaxParseTime:     time.Duration(atomic.LoadInt64(&c.maxParseTime)),
		TokensByKind:     loadCounters(&c.tokensByKind),
		Conversions:      loadCounters(&c.conversions),
		ErrorsByType:     loadCounters(&c.errorsByType),
		Uptime:           time.Since(c.startTime),
	}
}

// Reset resets all statistics
func (c *Collector) Reset() {
	atomic.StoreInt64(&c.totalTokens, 0)
	atomic.StoreInt64(&c.bytesConsumed, 0)
	atomic.StoreInt64(&c.documents, 0)
	atomic.StoreInt64(&c.failedDocuments, 0)
	atomic.StoreInt64(&c.overflows, 0)
	atomic.StoreInt64(&c.malformedNumbers, 0)
	atomic.StoreInt64(&c.totalParseTime, 0)
	atomic.StoreInt64(&c.maxParseTime, 0)
	c.tokensByKind.Clear()
	c.conversions.Clear()
	c.errorsByType.Clear()
	c.startTime = time.Now()
}

// Summary returns a formatted summary of the statistics
func (c *Collector) Summary() string {
	s := c.Snapshot()

	return fmt.Sprintf(`Tokenizer Summary:
  Documents: %d total (%d failed)
  Tokens: %d (%s)
  Conversions: %s
  Numeric errors: %d overflow, %d malformed
  Parse time: avg %v, max %v`,
		s.Documents,
		s.FailedDocuments,
		s.TotalTokens,
		formatCounters(s.TokensByKind),
		formatCounters(s.Conversions),
		s.Overflows,
		s.MalformedNumbers,
		s.AvgParseTime,
		s.MaxParseTime,
	)
}

// Stats is a point-in-time copy of collected statistics
type Stats struct {
	TotalTokens      int64 `json:"total_tokens" yaml:"total_tokens"`
	BytesConsumed    int64 `json:"bytes_consumed" yaml:"bytes_consumed"`
	Documents        int64 `json:"documents" yaml:"documents"`
	FailedDocuments  int64 `json:"failed_documents" yaml:"failed_documents"`
	Overflows        int64 `json:"overflows" yaml:"overflows"`
	MalformedNumbers int64 `json:"malformed_numbers" yaml:"malformed_numbers"`

	TotalParseTime time.Duration `json:"total_parse_time" yaml:"total_parse_time"`
	AvgParseTime   time.Duration `json:"avg_parse_time" yaml:"avg_parse_time"`
	MaxParseTime   time.Duration `json:"max_parse_time" yaml:"max_parse_time"`

	TokensByKind map[string]int64 `json:"tokens_by_kind" yaml:"tokens_by_kind"`
	Conversions  map[string]int64 `json:"conversions" yaml:"conversions"`
	ErrorsByType map[string]int64 `json:"errors_by_type" yaml:"errors_by_type"`
	Uptime       time.Duration    `json:"uptime" yaml:"uptime"`
}

func incrementCounter(m *sync.Map, key string) {
	actual, _ := m.LoadOrStore(key, new(int64))
	atomic.AddInt64(actual.(*int64), 1)
}

func loadCounters(m *sync.Map) map[string]int64 {
	result := make(map[string]int64)
	m.Range(func(key, value any) bool {
		if k, ok := key.(string); ok {
			if v, ok := value.(*int64); ok {
				result[k] = atomic.LoadInt64(v)
			}
		}
		return true
	})
	return result
}

func formatCounters(m map[string]int64) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

// updateMax atomically updates target to value if value is greater
func updateMax(target *int64, value int64) {
	for {
		current := atomic.LoadInt64(target)
		if value <= current || atomic.CompareAndSwapInt64(target, current, value) {
			return
		}
	}
}
