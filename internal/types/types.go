// Package types defines every cross‑package data structure used by the trusttree CLI.
package types

import "encoding/xml"

const (
	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatYAML = "yaml"

	// RootName labels the single root node of every summary tree.
	RootName = "/"
	// PathSeparator splits directory segments and joins compacted labels.
	PathSeparator = "/"
	// LeafWildcard is the bucket label for files without a usable extension.
	LeafWildcard = "*"
)

// ExtensionMode selects how a basename is reduced to a leaf wildcard.
type ExtensionMode string

const (
	// ExtensionModeLast keeps the last dot suffix: archive.tar.gz -> *.gz.
	ExtensionModeLast ExtensionMode = "last"
	// ExtensionModeFull keeps everything after the first dot: archive.tar.gz -> *.tar.gz.
	ExtensionModeFull ExtensionMode = "full"
	// ExtensionModeStar ignores extensions: every file lands in *.
	ExtensionModeStar ExtensionMode = "star"
)

// FilterMode selects the style of emitted filter suggestions.
type FilterMode string

const (
	FilterModeExtension FilterMode = "ext"
	FilterModeDirectory FilterMode = "dir"
	FilterModeAll       FilterMode = "all"
)

const (
	DefaultMinCount       = 1
	DefaultMaxDepth       = 0
	DefaultTop            = 0
	DefaultPrefix         = RootName
	DefaultExtensionMode  = ExtensionModeLast
	DefaultFilterMode     = FilterModeExtension
	DefaultOutputFormat   = FormatRaw
	DefaultShowCounts     = true
	DefaultCompactEnabled = false
)

// ShapingConfig is the immutable record threaded through every stage of a run.
type ShapingConfig struct {
	ASCII          bool
	MinCount       int
	MaxDepth       int
	Top            int
	Prefix         string
	IncludeRegex   string
	ExcludeRegex   string
	ExtensionMode  ExtensionMode
	ShowCounts     bool
	Compact        bool
	Format         string
	EmitFilter     bool
	EmitFilterMode FilterMode
}

// DefaultShapingConfig returns the configuration used when no flag or file overrides a value.
func DefaultShapingConfig() ShapingConfig {
	return ShapingConfig{
		MinCount:       DefaultMinCount,
		MaxDepth:       DefaultMaxDepth,
		Top:            DefaultTop,
		Prefix:         DefaultPrefix,
		ExtensionMode:  DefaultExtensionMode,
		ShowCounts:     DefaultShowCounts,
		Compact:        DefaultCompactEnabled,
		Format:         DefaultOutputFormat,
		EmitFilterMode: DefaultFilterMode,
	}
}

// TreeOutputNode is the serialized form of one node of a shaped summary tree.
type TreeOutputNode struct {
	XMLName  xml.Name          `json:"-" xml:"node" yaml:"-"`
	Name     string            `json:"name" xml:"name" yaml:"name"`
	Count    int               `json:"count" xml:"count" yaml:"count"`
	Leaf     bool              `json:"leaf" xml:"leaf" yaml:"leaf"`
	Children []*TreeOutputNode `json:"children" xml:"children>node" yaml:"children"`
}
