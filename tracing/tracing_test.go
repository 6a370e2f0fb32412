package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "spans.json")

	if err := Init("feedq", "0.0.1", fname); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	ctx, span := StartSpan(context.Background(), "simulation.run", "INTERNAL")
	span.WithAttributes(map[string]string{"simulation.id": "test"})
	span.AddEvent("drained", map[string]string{"ticks": "3"})

	_, child := StartSpan(ctx, "runtime.startScenario demo", "CONSUMER")
	EndSpan(child, errors.New("no scheduling progress"))
	EndSpan(span, nil)

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("no data written to trace file")
	}
	if !strings.Contains(string(data), "drained") {
		t.Fatalf("span event missing from exported trace")
	}
	if !strings.Contains(string(data), "no scheduling progress") {
		t.Fatalf("error status missing from exported trace")
	}
}

func TestNilSpan(t *testing.T) {
	var span *Span
	span.WithAttributes(map[string]string{"k": "v"})
	span.AddEvent("noop", nil)
	span.SetStatus(nil)
	EndSpan(span, nil)
	EndSpan(nil, errors.New("ignored"))
}
