package tree

import (
	"go.uber.org/zap"

	"github.com/temirov/trusttree/internal/types"
)

// BuildStats counts how many paths a builder accepted and filtered out.
// TimedOut is the subset of Filtered whose regex match timed out.
type BuildStats struct {
	Accepted int
	Filtered int
	TimedOut int
}

// Builder folds raw paths into a count tree.
type Builder struct {
	root   *Node
	mode   types.ExtensionMode
	filter *Filter
	stats  BuildStats
}

// NewBuilder validates the extension mode and compiles the path filters of config.
func NewBuilder(config types.ShapingConfig) (*Builder, error) {
	mode, modeError := ParseExtensionMode(string(config.ExtensionMode))
	if modeError != nil {
		return nil, modeError
	}
	filter, filterError := NewFilter(config.Prefix, config.IncludeRegex, config.ExcludeRegex)
	if filterError != nil {
		return nil, filterError
	}
	return &Builder{root: NewRoot(), mode: mode, filter: filter}, nil
}

// Add filters, classifies and inserts one raw path. It reports whether the path was counted.
func (builder *Builder) Add(rawPath string) bool {
	if !builder.filter.Allows(rawPath) {
		builder.stats.Filtered++
		return false
	}
	builder.Insert(Classify(rawPath, builder.mode))
	builder.stats.Accepted++
	return true
}

// Insert counts one classified path, incrementing every node from the root to the leaf bucket.
func (builder *Builder) Insert(classification Classification) {
	current := builder.root
	current.Count++
	for _, segment := range classification.Segments {
		current = current.ensureChild(segment, false)
		current.Count++
	}
	leafLabel := classification.Leaf
	if leafLabel == "" {
		leafLabel = types.LeafWildcard
	}
	leaf := current.ensureChild(leafLabel, true)
	leaf.Count++
}

// SetLogger routes filter warnings to logger.
func (builder *Builder) SetLogger(logger *zap.Logger) {
	builder.filter.SetLogger(logger)
}

// Root returns the tree built so far.
func (builder *Builder) Root() *Node {
	return builder.root
}

// Stats returns the accepted and filtered path totals.
func (builder *Builder) Stats() BuildStats {
	stats := builder.stats
	stats.TimedOut = builder.filter.Timeouts()
	return stats
}

// Build runs every path through a fresh builder and returns the resulting count tree.
func Build(rawPaths []string, config types.ShapingConfig) (*Node, error) {
	builder, builderError := NewBuilder(config)
	if builderError != nil {
		return nil, builderError
	}
	for _, rawPath := range rawPaths {
		builder.Add(rawPath)
	}
	return builder.Root(), nil
}
