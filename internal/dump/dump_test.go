package dump_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/trusttree/internal/dump"
)

const sampleDump = "rpmdb /usr/bin/bash 1406128 8d3c1a\n" +
	"\n" +
	"# comment line\n" +
	"rpmdb\n" +
	"   filedb   /opt/app/run.sh 12 ab  \n" +
	"rpmdb /usr/lib64/libc.so.6 2310000 ff\n"

func TestParsePath(t *testing.T) {
	testCases := []struct {
		name         string
		line         string
		expectedPath string
		expectedOK   bool
	}{
		{name: "dump_record", line: "rpmdb /usr/bin/ls 1 abc", expectedPath: "/usr/bin/ls", expectedOK: true},
		{name: "two_fields", line: "x /etc/passwd", expectedPath: "/etc/passwd", expectedOK: true},
		{name: "tab_separated", line: "rpmdb\t/usr/sbin/sshd\t9", expectedPath: "/usr/sbin/sshd", expectedOK: true},
		{name: "single_field", line: "/usr/bin/ls", expectedOK: false},
		{name: "blank", line: "   ", expectedOK: false},
		{name: "comment", line: "# rpmdb /usr/bin/ls", expectedOK: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			path, ok := dump.ParsePath(testCase.line)
			if ok != testCase.expectedOK || path != testCase.expectedPath {
				t.Fatalf("expected (%q, %t), got (%q, %t)", testCase.expectedPath, testCase.expectedOK, path, ok)
			}
		})
	}
}

func collectPaths(t *testing.T, reader *dump.Reader) []string {
	t.Helper()
	out := make(chan string, 8)
	if streamError := reader.Stream(context.Background(), out); streamError != nil {
		t.Fatalf("stream: %v", streamError)
	}
	close(out)
	var paths []string
	for path := range out {
		paths = append(paths, path)
	}
	return paths
}

func TestStreamSkipsMalformedLines(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	reader := dump.NewReader(strings.NewReader(sampleDump), zap.New(core))

	paths := collectPaths(t, reader)
	expected := []string{"/usr/bin/bash", "/opt/app/run.sh", "/usr/lib64/libc.so.6"}
	if !reflect.DeepEqual(paths, expected) {
		t.Fatalf("expected %v, got %v", expected, paths)
	}
	expectedStats := dump.Stats{Lines: 6, Paths: 3, Skipped: 3, Malformed: 1}
	if reader.Stats() != expectedStats {
		t.Fatalf("expected stats %+v, got %+v", expectedStats, reader.Stats())
	}
	if recorded.Len() != 1 {
		t.Fatalf("expected one debug entry for the malformed line, got %d", recorded.Len())
	}
}

func TestStreamHandlesLongLines(t *testing.T) {
	longPath := "/usr/share/" + strings.Repeat("x", 200000) + ".txt"
	reader := dump.NewReader(strings.NewReader("rpmdb "+longPath+" 1 ab\n"), nil)

	paths := collectPaths(t, reader)
	if !reflect.DeepEqual(paths, []string{longPath}) {
		t.Fatalf("expected the long path to survive, got %d paths", len(paths))
	}
}

func TestStreamStopsOnCancellation(t *testing.T) {
	reader := dump.NewReader(strings.NewReader(sampleDump), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	streamError := reader.Stream(ctx, make(chan string))
	if !errors.Is(streamError, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", streamError)
	}
}
