package editor_test

import (
	"testing"
	"time"

	"github.com/vsariola/timeline/editor"
)

func TestDefaultPreferences(t *testing.T) {
	p := editor.DefaultPreferences()
	if p.DragThreshold != 8 || p.EdgeWidth != 8 {
		t.Errorf("unexpected drag threshold %v or edge width %v", p.DragThreshold, p.EdgeWidth)
	}
	if p.AutoScroll.HorizontalSpeed != 20 || p.AutoScroll.Border != 5 {
		t.Errorf("unexpected autoscroll preferences %+v", p.AutoScroll)
	}
	if !p.LoopPromotion {
		t.Errorf("loop promotion should be on by default")
	}
	if p.YmlError != nil {
		t.Errorf("default preferences should not have an error: %v", p.YmlError)
	}
}

func TestAlertsExpire(t *testing.T) {
	var a editor.Alerts
	a.Add("saved", editor.Info)
	a.AddNamed("editor", "first", editor.Error)
	a.AddNamed("editor", "second", editor.Warning)
	items := a.Items()
	if len(items) != 2 || items[1].Message != "second" {
		t.Fatalf("named alert should replace the earlier one, got %+v", items)
	}
	if !a.Update(time.Second) {
		t.Errorf("alerts should remain after a second")
	}
	if a.Update(3 * time.Second) {
		t.Errorf("alerts should expire, got %+v", a.Items())
	}
}
