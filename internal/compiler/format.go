package compiler

import (
	"encoding/json"
	"strings"

	"github.com/aretw0/storyviz/pkg/domain"
)

// Format writes a story step back into the Markdown story format.
func Format(step domain.StoryStep) string {
	var sb strings.Builder
	sb.WriteString("## ")
	sb.WriteString(step.Name)
	sb.WriteString("\n")
	for _, cp := range step.StartCheckpoints {
		sb.WriteString("> " + cp + "\n")
	}
	for _, ev := range step.Events {
		switch ev.Type {
		case domain.EventUser:
			text := ev.Text
			if text == "" {
				text = domain.UserText(ev.Name, ev.Entities)
			}
			sb.WriteString("* " + strings.TrimPrefix(text, "/") + "\n")
		case domain.EventSlot:
			raw, _ := json.Marshal(map[string]any{ev.Name: ev.Value})
			sb.WriteString("  - slot" + string(raw) + "\n")
		case domain.EventForm:
			payload := ev.Value
			if payload == nil {
				payload = map[string]any{"name": ev.Name}
			}
			raw, _ := json.Marshal(payload)
			sb.WriteString("  - form" + string(raw) + "\n")
		default:
			sb.WriteString("  - " + ev.Name + "\n")
		}
	}
	for _, cp := range step.EndCheckpoints {
		sb.WriteString("> " + cp + "\n")
	}
	return sb.String()
}
