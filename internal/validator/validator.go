package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/storyviz/internal/compiler"
	"github.com/aretw0/storyviz/pkg/domain"
)

// Kind classifies a validation issue.
type Kind string

const (
	UnknownIntent    Kind = "unknown_intent"
	UnknownAction    Kind = "unknown_action"
	UnusedCheckpoint Kind = "unused_checkpoint"
	UnreachableStory Kind = "unreachable_story"
)

// Issue is a single problem found in the stories.
type Issue struct {
	Kind   Kind
	Name   string
	Story  string
	Source string
	Line   int
}

func (i Issue) String() string {
	where := ""
	if i.Source != "" {
		where = fmt.Sprintf(" (%s:%d, story '%s')", i.Source, i.Line, i.Story)
	}
	switch i.Kind {
	case UnknownIntent:
		return fmt.Sprintf("Intent '%s' is not in the domain%s", i.Name, where)
	case UnknownAction:
		return fmt.Sprintf("Action '%s' is not in the domain%s", i.Name, where)
	case UnusedCheckpoint:
		return fmt.Sprintf("Checkpoint '%s' is never continued", i.Name)
	case UnreachableStory:
		return fmt.Sprintf("Story '%s' can never be reached%s", i.Name, where)
	}
	return fmt.Sprintf("%s: %s", i.Kind, i.Name)
}

// Check lists the issues of steps against d. Each unknown name is reported once,
// at its first use.
func Check(d *domain.Domain, steps []domain.StoryStep) []Issue {
	var issues []Issue
	seen := make(map[string]bool)
	report := func(kind Kind, name string, step domain.StoryStep) {
		key := string(kind) + "/" + name
		if seen[key] {
			return
		}
		seen[key] = true
		issues = append(issues, Issue{Kind: kind, Name: name, Story: step.Name, Source: step.Source, Line: step.Line})
	}

	for _, step := range steps {
		for _, ev := range step.Events {
			switch ev.Type {
			case domain.EventUser:
				if ev.Name != "" && !d.HasIntent(ev.Name) {
					report(UnknownIntent, ev.Name, step)
				}
			case domain.EventAction:
				if !d.HasAction(ev.Name) {
					report(UnknownAction, ev.Name, step)
				}
			}
		}
	}

	for _, cp := range compiler.UnusedCheckpoints(steps) {
		issues = append(issues, Issue{Kind: UnusedCheckpoint, Name: cp})
	}

	ends := make(map[string]bool)
	for _, step := range steps {
		for _, cp := range step.EndCheckpoints {
			ends[cp] = true
		}
	}
	for _, step := range steps {
		if step.IsStart() {
			continue
		}
		reachable := false
		for _, cp := range step.StartCheckpoints {
			if ends[cp] {
				reachable = true
				break
			}
		}
		if !reachable {
			issues = append(issues, Issue{Kind: UnreachableStory, Name: step.Name, Story: step.Name, Source: step.Source, Line: step.Line})
		}
	}
	return issues
}

// ValidateStories returns an error listing every issue, or nil.
func ValidateStories(d *domain.Domain, steps []domain.StoryStep) error {
	issues := Check(d, steps)
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(issues), strings.Join(lines, "\n- "))
}
