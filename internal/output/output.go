// Package output renders shaped summary trees as text, JSON, XML, or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/trusttree/internal/tree"
	"github.com/temirov/trusttree/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	xmlHeader = xml.Header

	countOpen  = " ["
	countClose = "]"

	errorUnsupportedFormatFormat = "%w %q"
	errorEncodeFormat            = "encode %s output: %w"
)

// ErrUnsupportedFormat reports an output format other than raw, json, xml, and yaml.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// GlyphSet holds the connectors used to draw a text tree.
type GlyphSet struct {
	Branch        string
	Last          string
	BranchPadding string
	LastPadding   string
}

var (
	// UnicodeGlyphs draws the tree with box-drawing characters.
	UnicodeGlyphs = GlyphSet{Branch: "├── ", Last: "└── ", BranchPadding: "│   ", LastPadding: "    "}
	// ASCIIGlyphs draws the tree with plain ASCII.
	ASCIIGlyphs = GlyphSet{Branch: "|-- ", Last: "`-- ", BranchPadding: "|   ", LastPadding: "    "}
)

// RawOptions controls the text renderer.
type RawOptions struct {
	ASCII      bool
	ShowCounts bool
}

func (options RawOptions) glyphs() GlyphSet {
	if options.ASCII {
		return ASCIIGlyphs
	}
	return UnicodeGlyphs
}

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML, types.FormatYAML:
		return true
	default:
		return false
	}
}

// RenderTree renders view in the requested format. The result always ends with a newline.
func RenderTree(format string, view *tree.Node, options RawOptions) (string, error) {
	var rendered string
	var renderError error
	switch format {
	case types.FormatRaw:
		return RenderTreeRaw(view, options), nil
	case types.FormatJSON:
		rendered, renderError = RenderJSON(view)
	case types.FormatXML:
		rendered, renderError = RenderXML(view)
	case types.FormatYAML:
		rendered, renderError = RenderYAML(view)
	default:
		return "", fmt.Errorf(errorUnsupportedFormatFormat, ErrUnsupportedFormat, format)
	}
	if renderError != nil {
		return "", renderError
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	return rendered, nil
}

// BuildOutputTree converts a shaped view into its serializable form.
// Leaves and childless directories carry an empty children list.
func BuildOutputTree(view *tree.Node) *types.TreeOutputNode {
	if view == nil {
		return nil
	}
	outputNode := &types.TreeOutputNode{
		Name:     view.Name,
		Count:    view.Count,
		Leaf:     view.Leaf,
		Children: make([]*types.TreeOutputNode, 0, len(view.Children)),
	}
	for _, child := range view.Children {
		outputNode.Children = append(outputNode.Children, BuildOutputTree(child))
	}
	return outputNode
}

// RenderJSON marshals view as indented JSON.
func RenderJSON(view *tree.Node) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(BuildOutputTree(view), indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", fmt.Errorf(errorEncodeFormat, types.FormatJSON, jsonEncodeError)
	}
	return string(encoded), nil
}

// RenderXML marshals view as indented XML with a standard header.
func RenderXML(view *tree.Node) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(BuildOutputTree(view), indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", fmt.Errorf(errorEncodeFormat, types.FormatXML, xmlMarshalError)
	}
	return xmlHeader + string(encoded), nil
}

// RenderYAML marshals view as a YAML document.
func RenderYAML(view *tree.Node) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if encodeError := encoder.Encode(BuildOutputTree(view)); encodeError != nil {
		return "", fmt.Errorf(errorEncodeFormat, types.FormatYAML, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", fmt.Errorf(errorEncodeFormat, types.FormatYAML, closeError)
	}
	return buffer.String(), nil
}

// RenderTreeRaw returns the text rendering of view.
func RenderTreeRaw(view *tree.Node, options RawOptions) string {
	var buffer bytes.Buffer
	WriteTreeRaw(&buffer, view, options)
	return buffer.String()
}

// WriteTreeRaw writes view as a text tree, root first and without a connector.
func WriteTreeRaw(writer io.Writer, view *tree.Node, options RawOptions) {
	if view == nil {
		return
	}
	renderTreeNode(writer, view, "", options.glyphs(), options.ShowCounts, true, true)
}

func treeNodeLinePrefix(prefix string, glyphs GlyphSet, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := glyphs.Branch
	childPrefix := prefix + glyphs.BranchPadding
	if isLast {
		connector = glyphs.Last
		childPrefix = prefix + glyphs.LastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *tree.Node, prefix string, glyphs GlyphSet, showCounts bool, isRoot bool, isLast bool) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, glyphs, isRoot, isLast)
	fmt.Fprintf(writer, "%s%s\n", linePrefix, nodeLabel(node, showCounts))
	for index, child := range node.Children {
		renderTreeNode(writer, child, childPrefix, glyphs, showCounts, false, index == len(node.Children)-1)
	}
}

func nodeLabel(node *tree.Node, showCounts bool) string {
	if !showCounts {
		return node.Name
	}
	return node.Name + countOpen + strconv.Itoa(node.Count) + countClose
}
