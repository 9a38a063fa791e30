package utils_test

import (
	"testing"

	"github.com/temirov/trusttree/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"/usr/bin/*", "/usr/lib64/*.so", "/usr/bin/*"},
			expected: []string{"/usr/bin/*", "/usr/lib64/*.so"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"/boot/**", "/etc/**"},
			expected: []string{"/boot/**", "/etc/**"},
		},
		{
			testName: "nil input",
			patterns: nil,
			expected: []string{},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestGetApplicationVersionNeverEmpty verifies a version string is always produced.
func TestGetApplicationVersionNeverEmpty(testingInstance *testing.T) {
	if utils.GetApplicationVersion() == "" {
		testingInstance.Fatalf("expected a non-empty version")
	}
}

// TestNewApplicationLogger verifies both logger constructors succeed.
func TestNewApplicationLogger(testingInstance *testing.T) {
	applicationLogger, applicationLoggerError := utils.NewApplicationLogger()
	if applicationLoggerError != nil || applicationLogger == nil {
		testingInstance.Fatalf("application logger: %v", applicationLoggerError)
	}
	debugLogger, debugLoggerError := utils.NewDebugLogger()
	if debugLoggerError != nil || debugLogger == nil {
		testingInstance.Fatalf("debug logger: %v", debugLoggerError)
	}
}
