package webhooks

import "testing"

func TestClassify_OnlyStarIsInScope(t *testing.T) {
	if !Classify("star").InScope {
		t.Fatalf("expected star to be in scope")
	}
	for _, eventType := range []string{"", "issues", "push", "watch", "Star", " star", "star "} {
		got := Classify(eventType)
		if got.InScope {
			t.Fatalf("expected %q to be out of scope", eventType)
		}
		if got.EventType != eventType {
			t.Fatalf("expected event type %q to be kept, got %q", eventType, got.EventType)
		}
	}
}
