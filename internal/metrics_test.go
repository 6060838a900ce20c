package internal

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCollector(t *testing.T) {
	t.Run("Creation", func(t *testing.T) {
		c := NewCollector()
		if c == nil {
			t.Fatal("NewCollector returned nil")
		}
		if c.startTime.IsZero() {
			t.Error("Start time should be set")
		}
		s := c.Snapshot()
		if s.TotalTokens != 0 || s.Documents != 0 {
			t.Errorf("Expected empty snapshot, got %+v", s)
		}
	})

	t.Run("Tokens", func(t *testing.T) {
		c := NewCollector()
		c.RecordToken("VALUE_NUMBER_INT")
		c.RecordToken("VALUE_NUMBER_INT")
		c.RecordToken("START_ARRAY")

		s := c.Snapshot()
		if s.TotalTokens != 3 {
			t.Errorf("Expected 3 tokens, got %d", s.TotalTokens)
		}
		if s.TokensByKind["VALUE_NUMBER_INT"] != 2 {
			t.Errorf("Expected 2 int tokens, got %d", s.TokensByKind["VALUE_NUMBER_INT"])
		}
	})

	t.Run("NumericErrors", func(t *testing.T) {
		c := NewCollector()
		c.RecordConversion("int32")
		c.RecordConversion("int32")
		c.RecordConversion("decimal")
		c.RecordOverflow()
		c.RecordMalformedNumber()
		c.RecordError("numeric_overflow")

		s := c.Snapshot()
		if s.Conversions["int32"] != 2 || s.Conversions["decimal"] != 1 {
			t.Errorf("Unexpected conversions %v", s.Conversions)
		}
		if s.Overflows != 1 || s.MalformedNumbers != 1 {
			t.Errorf("Expected one overflow and one malformed number, got %d and %d", s.Overflows, s.MalformedNumbers)
		}
		if s.ErrorsByType["numeric_overflow"] != 1 {
			t.Errorf("Unexpected errors %v", s.ErrorsByType)
		}
	})

	t.Run("Documents", func(t *testing.T) {
		c := NewCollector()
		c.RecordDocument(10*time.Millisecond, true)
		c.RecordDocument(30*time.Millisecond, false)
		c.RecordBytes(512)
		c.RecordBytes(-1)

		s := c.Snapshot()
		if s.Documents != 2 || s.FailedDocuments != 1 {
			t.Errorf("Expected 2 documents with 1 failure, got %d and %d", s.Documents, s.FailedDocuments)
		}
		if s.AvgParseTime != 20*time.Millisecond {
			t.Errorf("Expected average 20ms, got %v", s.AvgParseTime)
		}
		if s.MaxParseTime != 30*time.Millisecond {
			t.Errorf("Expected max 30ms, got %v", s.MaxParseTime)
		}
		if s.BytesConsumed != 512 {
			t.Errorf("Expected 512 bytes, got %d", s.BytesConsumed)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		c := NewCollector()
		c.RecordToken("VALUE_NULL")
		c.RecordOverflow()
		c.RecordDocument(time.Millisecond, false)
		c.Reset()

		s := c.Snapshot()
		if s.TotalTokens != 0 || s.Overflows != 0 || s.Documents != 0 {
			t.Errorf("Expected zeroed snapshot after reset, got %+v", s)
		}
		if len(s.TokensByKind) != 0 {
			t.Errorf("Expected no token kinds after reset, got %v", s.TokensByKind)
		}
	})

	t.Run("Summary", func(t *testing.T) {
		c := NewCollector()
		c.RecordToken("VALUE_TRUE")
		c.RecordDocument(time.Millisecond, true)

		summary := c.Summary()
		for _, want := range []string{"Documents: 1 total (0 failed)", "VALUE_TRUE=1", "Conversions: none"} {
			if !strings.Contains(summary, want) {
				t.Errorf("Summary missing %q:\n%s", want, summary)
			}
		}
	})

	t.Run("Concurrent", func(t *testing.T) {
		c := NewCollector()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					c.RecordToken("VALUE_STRING")
					c.RecordConversion("float64")
					c.RecordDocument(time.Duration(j), true)
				}
			}()
		}
		wg.Wait()

		s := c.Snapshot()
		if s.TotalTokens != 800 || s.TokensByKind["VALUE_STRING"] != 800 {
			t.Errorf("Expected 800 tokens, got %d", s.TotalTokens)
		}
		if s.Conversions["float64"] != 800 {
			t.Errorf("Expected 800 conversions, got %d", s.Conversions["float64"])
		}
		if s.MaxParseTime != 99 {
			t.Errorf("Expected max parse time 99ns, got %v", s.MaxParseTime)
		}
	})
}
