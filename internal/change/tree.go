package change

import (
	"os"
	"path/filepath"
	"strings"
)

// ExcludedDirs are directories skipped while collecting a source tree.
var ExcludedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"testdata":     true,
	"migrations":   true,
}

// excludedPathFragments filter out generated and mock files by path.
var excludedPathFragments = []string{
	".gen.",
	".generated.",
	"_generated",
	".pb.go",
	".mock.go",
	"_mock.go",
	"mocks/",
}

// CollectTree walks root and returns (path, content) pairs for files whose
// extension is in exts, preserving walk order. Hidden and excluded
// directories are skipped; unreadable files are silently dropped.
func CollectTree(root string, exts []string) ([]FilePair, error) {
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[ext] = true
	}

	var pairs []FilePair
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || ExcludedDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		if !allowed[filepath.Ext(name)] || excludedPath(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		pairs = append(pairs, FilePair{Path: filepath.ToSlash(rel), Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

func excludedPath(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, fragment := range excludedPathFragments {
		if strings.Contains(slashed, fragment) {
			return true
		}
	}
	return false
}
