package vetbuddy

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewPage(800, 600, testBackgroundConfig(), WithLogger(zap.New(core)), WithDebug(true))

	root := NewElement("deep", Rect{Height: 100})
	current := root
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := NewElement(fmt.Sprintf("depth_%d", i), Rect{})
		current.AddChild(child)
		current = child
	}
	if err := p.AddSection(NewSection(root)); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("element tree too deep").Len() != 1 {
		t.Errorf("expected one tree depth warning, got %v", logs.All())
	}
}

func TestReleaseMode_NoTreeDepthCheck(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewPage(800, 600, testBackgroundConfig(), WithLogger(zap.New(core)))

	root := NewElement("deep", Rect{Height: 100})
	current := root
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := NewElement("", Rect{})
		current.AddChild(child)
		current = child
	}
	if err := p.AddSection(NewSection(root)); err != nil {
		t.Fatal(err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", logs.All())
	}
}

func TestDebugLogFrameStats(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewPage(800, 600, testBackgroundConfig(), WithLogger(zap.New(core)))
	stats := frameStats{
		updateTime:    time.Millisecond,
		drawTime:      2 * time.Millisecond,
		elementsDrawn: 12,
		registrations: 3,
		playing:       1,
		subscriptions: 3,
		bgDrawCalls:   1,
	}
	p.debugLog(stats)
	if logs.Len() != 0 {
		t.Fatal("frame stats logged outside debug mode")
	}
	p.SetDebugMode(true)
	p.debugLog(stats)
	entries := logs.FilterMessage("frame").All()
	if len(entries) != 1 {
		t.Fatalf("frame entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["elements"]; got != int64(12) {
		t.Errorf("elements = %v, want 12", got)
	}
}

func TestMissingTargetLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewPage(800, 600, testBackgroundConfig(), WithLogger(zap.New(core)))
	root := NewElement("hero", Rect{Height: 800})
	s := NewSection(root).Bind(ScrollTrigger{ID: "hero-intro", End: Boundary{Element: 1}},
		NewTimeline(Step{Target: "#missing", Deltas: opacity(0, 1), Duration: 1}))
	if err := p.AddSection(s); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("step target not found, step is a no-op").Len() != 1 {
		t.Errorf("expected a missing target entry, got %v", logs.All())
	}
}
