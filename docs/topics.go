// Package docs holds the user documentation of vtrade, one markdown topic
// per file.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var topics embed.FS

// index is the topic listing all the others.
const index = "readme"

// Topic returns the markdown of a topic. The "*" topic is every topic
// concatenated, in alphabetical order.
func Topic(name string) (string, error) {
	if name == "*" {
		names, err := Topics()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, n := range names {
			content, err := Topic(n)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
		return b.String(), nil
	}
	content, err := topics.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Index returns the markdown of the topic index.
func Index() string {
	content, _ := Topic(index)
	return content
}

// Topics returns the sorted names of all topics but the index.
func Topics() ([]string, error) {
	entries, err := fs.ReadDir(topics, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".md")
		if !ok || e.IsDir() || name == index {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
