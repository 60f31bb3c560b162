package domain

import "strings"

// Chunk is an ordered, non-empty group of Units whose combined token cost
// fits the configured budget. A single Unit that alone exceeds the usable
// budget still gets its own Chunk, flagged OverBudget, since splitting a
// Unit is not supported.
type Chunk struct {
	Index      int
	Units      []Unit
	Tokens     int
	OverBudget bool
}

// Files returns the unit paths in their original order.
func (c *Chunk) Files() []string {
	files := make([]string, 0, len(c.Units))
	for _, u := range c.Units {
		files = append(files, u.Path)
	}
	return files
}

// Text returns the unit contents joined for a single review prompt.
func (c *Chunk) Text() string {
	parts := make([]string, 0, len(c.Units))
	for _, u := range c.Units {
		parts = append(parts, u.Content)
	}
	return strings.Join(parts, "\n\n")
}
