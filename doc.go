/*
Package storyviz renders dialogue training stories as a graph of the conversation flow.

Stories are written in the Markdown story format: each "## name" block lists user turns
("* intent{entities}") and bot actions ("- action"), optionally chained together with
"> checkpoint" lines. storyviz expands the checkpoints into complete conversations,
builds one path per conversation and merges nodes whose surrounding context is the
same, so that shared prefixes and loops collapse into a readable flowchart.

# Usage

	policies, err := config.Load("config.yml")
	if err != nil {
		log.Fatal(err)
	}

	agent, err := storyviz.New("domain.yml", policies)
	if err != nil {
		log.Fatal(err)
	}

	err = agent.Visualize(ctx, "data/stories.md", "graph.html", 2, domain.Absent())

# Sources

The stories argument may be a single file, a directory (read through Loam, one story
file per Markdown document) or a doublestar glob such as "data/stories_*.md". Tests and
embedders can bypass resolution with WithStoryLoader.

# Output

The output format follows the file extension: ".html" (default) embeds Mermaid in a
standalone page, ".mmd" writes raw Mermaid, ".md" a fenced Mermaid block and ".dot"
a Graphviz digraph.
*/
package storyviz
