package tree

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
)

const (
	errorIncludeRegexFormat = "%w: include regex %q: %v"
	errorExcludeRegexFormat = "%w: exclude regex %q: %v"

	// regexMatchTimeout bounds a single include or exclude match.
	regexMatchTimeout = 2 * time.Second

	includeStage        = "include"
	excludeStage        = "exclude"
	matchTimeoutMessage = "regex match timed out, skipping path"
)

// ErrInvalidRegex reports an include or exclude expression that does not compile.
var ErrInvalidRegex = errors.New("invalid regular expression")

// Filter decides which raw paths reach the builder.
// Stages run in order: prefix, include, exclude.
// A path whose include or exclude match times out is skipped and counted in Timeouts.
type Filter struct {
	prefix   string
	include  *regexp2.Regexp
	exclude  *regexp2.Regexp
	logger   *zap.Logger
	timeouts int
}

// NewFilter compiles the include and exclude expressions. Empty expressions disable their stage.
// Expressions use Perl-style syntax, so lookarounds and backreferences are available.
func NewFilter(prefix, includeExpression, excludeExpression string) (*Filter, error) {
	filter := &Filter{prefix: prefix, logger: zap.NewNop()}
	if strings.TrimSpace(includeExpression) != "" {
		compiled, compileError := regexp2.Compile(includeExpression, regexp2.None)
		if compileError != nil {
			return nil, fmt.Errorf(errorIncludeRegexFormat, ErrInvalidRegex, includeExpression, compileError)
		}
		compiled.MatchTimeout = regexMatchTimeout
		filter.include = compiled
	}
	if strings.TrimSpace(excludeExpression) != "" {
		compiled, compileError := regexp2.Compile(excludeExpression, regexp2.None)
		if compileError != nil {
			return nil, fmt.Errorf(errorExcludeRegexFormat, ErrInvalidRegex, excludeExpression, compileError)
		}
		compiled.MatchTimeout = regexMatchTimeout
		filter.exclude = compiled
	}
	return filter, nil
}

// SetLogger routes match timeout warnings to logger. A nil logger discards them.
func (filter *Filter) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	filter.logger = logger
}

// Timeouts returns how many paths were skipped because a match timed out.
func (filter *Filter) Timeouts() int {
	if filter == nil {
		return 0
	}
	return filter.timeouts
}

// Allows reports whether a path survives every filter stage.
func (filter *Filter) Allows(path string) bool {
	if filter == nil {
		return true
	}
	if filter.prefix != "" && !strings.HasPrefix(path, filter.prefix) {
		return false
	}
	if filter.include != nil {
		matched, matchError := filter.include.MatchString(path)
		if matchError != nil {
			filter.recordTimeout(includeStage, path, matchError)
			return false
		}
		if !matched {
			return false
		}
	}
	if filter.exclude != nil {
		matched, matchError := filter.exclude.MatchString(path)
		if matchError != nil {
			filter.recordTimeout(excludeStage, path, matchError)
			return false
		}
		if matched {
			return false
		}
	}
	return true
}

// recordTimeout handles the only error regexp2 returns from a match.
func (filter *Filter) recordTimeout(stage, path string, matchError error) {
	filter.timeouts++
	filter.logger.Warn(matchTimeoutMessage, zap.String("stage", stage), zap.String("path", path), zap.Error(matchError))
}
