package compiler

import (
	"slices"
	"strings"

	"github.com/aretw0/storyviz/pkg/domain"
)

// MaxSequences caps the number of complete conversations Flatten generates.
// Heavily branching checkpoints grow combinatorially.
var MaxSequences = 10000

// Flatten resolves checkpoints and returns every complete event sequence.
//
// Sequences start at steps without start checkpoints. A step ending in checkpoint c
// continues into every step starting with c; each checkpoint is followed at most once
// per sequence, so loops terminate. A sequence whose end checkpoint has no
// continuation ends there.
func Flatten(steps []domain.StoryStep) []domain.Story {
	byCheckpoint := make(map[string][]int)
	for i, s := range steps {
		for _, cp := range s.StartCheckpoints {
			byCheckpoint[cp] = append(byCheckpoint[cp], i)
		}
	}

	f := &flattener{steps: steps, byCheckpoint: byCheckpoint}
	for i, s := range steps {
		if !s.IsStart() {
			continue
		}
		f.walk(i, nil, nil, nil)
		if f.full() {
			break
		}
	}
	return f.stories
}

type flattener struct {
	steps        []domain.StoryStep
	byCheckpoint map[string][]int
	stories      []domain.Story
}

func (f *flattener) full() bool {
	return len(f.stories) >= MaxSequences
}

func (f *flattener) walk(idx int, names []string, events []domain.Event, used []string) {
	if f.full() {
		return
	}
	step := f.steps[idx]
	if len(names) == 0 || names[len(names)-1] != step.Name {
		// steps split at an OR turn share their story name
		names = append(slices.Clip(names), step.Name)
	}
	events = append(slices.Clip(events), step.Events...)

	continued := false
	for _, cp := range step.EndCheckpoints {
		if slices.Contains(used, cp) {
			continue
		}
		next := f.byCheckpoint[cp]
		if len(next) == 0 {
			continue
		}
		nextUsed := append(slices.Clip(used), cp)
		for _, n := range next {
			continued = true
			f.walk(n, names, events, nextUsed)
		}
	}
	if !continued {
		f.stories = append(f.stories, domain.Story{
			Name:   strings.Join(names, " > "),
			Events: events,
		})
	}
}

// UnusedCheckpoints returns end checkpoints no step starts from and start checkpoints
// no step ends with, sorted.
func UnusedCheckpoints(steps []domain.StoryStep) []string {
	starts := make(map[string]bool)
	ends := make(map[string]bool)
	for _, s := range steps {
		for _, cp := range s.StartCheckpoints {
			starts[cp] = true
		}
		for _, cp := range s.EndCheckpoints {
			ends[cp] = true
		}
	}
	var unused []string
	for cp := range starts {
		if !ends[cp] {
			unused = append(unused, cp)
		}
	}
	for cp := range ends {
		if !starts[cp] {
			unused = append(unused, cp)
		}
	}
	slices.Sort(unused)
	return unused
}
