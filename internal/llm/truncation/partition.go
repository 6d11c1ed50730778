package truncation

import "regexp"

// testPathPattern matches "test" or "tests" as a whole token of a path
var testPathPattern = regexp.MustCompile(`(?i)(^|[^a-z0-9])tests?([^a-z0-9]|$)`)

// IsTestPath reports whether path names test code
func IsTestPath(path string) bool {
	return testPathPattern.MatchString(path)
}

// PartitionTests splits files into source and test paths, preserving input order.
// The two results are disjoint and together cover files.
func PartitionTests(files []string) (sources, tests []string) {
	for _, f := range files {
		if IsTestPath(f) {
			tests = append(tests, f)
		} else {
			sources = append(sources, f)
		}
	}
	return sources, tests
}
