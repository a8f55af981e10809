package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/aretw0/storyviz/pkg/ports"
)

// MixedDataFiles is a data directory holding stories next to NLU training data.
// A StoryLoader over it must return MixedDataStories only.
var MixedDataFiles = map[string]string{
	"stories.md":  "## greet\n* greet\n  - utter_greet\n\n## bye\n* goodbye\n  - utter_goodbye\n",
	"nlu.md":      "## intent:greet\n- hey\n- hello\n\n## intent:goodbye\n- bye\n",
	"synonyms.md": "<!-- shared synonyms -->\n## synonym:berlin\n- BER\n",
}

// MixedDataStories are the story names found in MixedDataFiles.
var MixedDataStories = []string{"greet", "bye"}

// StoryLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.StoryLoader.
// wantStories lists the story names the loader must return, in any order.
func StoryLoaderContractTest(t *testing.T, loader ports.StoryLoader, wantStories []string) {
	t.Helper()

	t.Run("LoadSteps", func(t *testing.T) {
		steps, err := loader.LoadSteps(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading steps: %v", err)
		}
		if len(steps) != len(wantStories) {
			t.Errorf("expected %d steps, got %d", len(wantStories), len(steps))
		}
		lookup := make(map[string]bool)
		for _, s := range steps {
			lookup[s.Name] = true
			for _, ev := range s.Events {
				if ev.Type == domain.EventAction && strings.Contains(ev.Name, " ") {
					t.Errorf("step %q has action %q; NLU examples were read as stories", s.Name, ev.Name)
				}
			}
			if len(s.Events) == 0 && len(s.EndCheckpoints) == 0 {
				t.Errorf("step %q has no events", s.Name)
			}
		}
		for _, name := range wantStories {
			if !lookup[name] {
				t.Errorf("story %s missing from steps", name)
			}
		}
	})

	t.Run("Describe", func(t *testing.T) {
		if loader.Describe() == "" {
			t.Error("expected a non-empty description")
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := loader.LoadSteps(ctx)
		if err == nil {
			t.Fatal("expected error for cancelled context, got nil")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
