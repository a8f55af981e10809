// Command gen-stories writes a synthetic bot project with many branching stories.
// It is used to exercise node merging on larger graphs:
//
//	go run ./cmd/gen-stories examples/generated 50
//	storyviz -c examples/generated/config.yml -d examples/generated/domain.yml -s examples/generated/data/stories
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/storyviz/internal/adapters/file"
)

var moods = []string{"great", "ok", "unhappy"}

func main() {
	targetDir := "examples/generated"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}
	count := 20
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		check(err)
		count = n
	}

	fmt.Printf("Generating %d stories in: %s\n", count, targetDir)
	check(generate(context.Background(), targetDir, count))
	fmt.Println("Done. Verify contents in", targetDir)
}

// generate writes config.yml, domain.yml, data/nlu.md and count story documents
// under data/stories.
func generate(ctx context.Context, targetDir string, count int) error {
	storiesDir := filepath.Join(targetDir, "data", "stories")
	if err := os.MkdirAll(storiesDir, 0o755); err != nil {
		return err
	}

	if err := file.WriteAtomic(filepath.Join(targetDir, "config.yml"), []byte(configYAML)); err != nil {
		return err
	}
	if err := file.WriteAtomic(filepath.Join(targetDir, "domain.yml"), []byte(domainYAML())); err != nil {
		return err
	}
	if err := file.WriteAtomic(filepath.Join(targetDir, "data", "nlu.md"), []byte(nluMarkdown())); err != nil {
		return err
	}

	// No versioning: plain file generation.
	repo, err := loam.Init(storiesDir, loam.WithVersioning(false))
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		mood := moods[i%len(moods)]
		doc := core.Document{
			ID:      fmt.Sprintf("story_%03d.md", i),
			Content: story(i, mood),
			Metadata: core.Metadata{
				"title": fmt.Sprintf("Generated story %d", i),
				"tags":  []string{"generated", mood},
			},
		}
		if err := repo.Save(ctx, doc); err != nil {
			return fmt.Errorf("saving %s: %w", doc.ID, err)
		}
	}
	return nil
}

// story alternates between a short path and a path that loops back through the mood question.
func story(i int, mood string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## generated %d\n", i)
	sb.WriteString("* greet\n  - utter_greet\n")
	if i%4 == 3 {
		// Ask twice so the merge step has a loop to collapse.
		sb.WriteString("* mood_ok\n  - utter_greet\n")
	}
	fmt.Fprintf(&sb, "* mood_%s\n", mood)
	switch mood {
	case "unhappy":
		sb.WriteString("  - utter_cheer_up\n  - utter_did_that_help\n")
		if i%2 == 0 {
			sb.WriteString("* affirm\n  - utter_happy\n")
		} else {
			sb.WriteString("* deny\n  - utter_goodbye\n")
		}
	default:
		sb.WriteString("  - utter_happy\n")
	}
	return sb.String()
}

const configYAML = `language: en
pipeline: supervised_embeddings
policies:
  - name: MemoizationPolicy
    max_history: 3
  - name: KerasPolicy
    epochs: 100
  - name: MappingPolicy
`

func domainYAML() string {
	var sb strings.Builder
	sb.WriteString("intents:\n  - greet\n  - affirm\n  - deny\n")
	for _, m := range moods {
		sb.WriteString("  - mood_" + m + "\n")
	}
	sb.WriteString(`actions:
  - utter_greet
  - utter_cheer_up
  - utter_did_that_help
  - utter_happy
  - utter_goodbye
templates:
  utter_greet:
    - text: "Hey! How are you?"
  utter_cheer_up:
    - text: "Here is something to cheer you up"
  utter_did_that_help:
    - text: "Did that help you?"
  utter_happy:
    - text: "Great, carry on!"
  utter_goodbye:
    - text: "Bye"
`)
	return sb.String()
}

func nluMarkdown() string {
	return `## intent:greet
- hey
- hello there

## intent:affirm
- yes
- indeed

## intent:deny
- no
- never

## intent:mood_great
- perfect
- I am feeling very good

## intent:mood_ok
- I am ok

## intent:mood_unhappy
- I am sad
- not good
`
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
