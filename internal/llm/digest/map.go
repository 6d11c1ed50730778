package digest

import "sort"

// Map holds one summary per changed file path. Entries are never recomputed.
type Map map[string]string

// Missing returns the paths of files without a digest, in input order
func (m Map) Missing(files []string) []string {
	var missing []string
	for _, f := range files {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Paths returns the summarized paths sorted lexically
func (m Map) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
