package domain

// Unit is one reviewable segment of a change, typically a single file's diff
// or content. Units are immutable after the partitioner creates them and do
// not outlive a single audit run.
type Unit struct {
	Path    string
	Content string
	Tokens  int
	Added   int
	Deleted int
}
