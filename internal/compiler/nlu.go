package compiler

import (
	"bufio"
	"bytes"
	"strings"
)

var nluSections = []string{"intent:", "synonym:", "regex:", "lookup:"}

// IsNLUDocument reports whether a Markdown document holds NLU training data rather
// than stories. Any "## intent:", "## synonym:", "## regex:" or "## lookup:" header
// marks it as NLU.
func IsNLUDocument(data []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "##") {
			continue
		}
		header := strings.TrimSpace(strings.TrimLeft(line, "#"))
		for _, prefix := range nluSections {
			if strings.HasPrefix(header, prefix) {
				return true
			}
		}
	}
	return false
}
