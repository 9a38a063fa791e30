// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/trusttree/internal/config"
	"github.com/temirov/trusttree/internal/dump"
	"github.com/temirov/trusttree/internal/filterpattern"
	"github.com/temirov/trusttree/internal/output"
	"github.com/temirov/trusttree/internal/services/clipboard"
	"github.com/temirov/trusttree/internal/tree"
	"github.com/temirov/trusttree/internal/types"
	"github.com/temirov/trusttree/internal/utils"
)

const (
	asciiFlagName          = "ascii"
	minCountFlagName       = "min-count"
	maxDepthFlagName       = "max-depth"
	topFlagName            = "top"
	prefixFlagName         = "prefix"
	excludeRegexFlagName   = "exclude-regex"
	includeRegexFlagName   = "include-regex"
	extensionModeFlagName  = "ext-mode"
	noCountsFlagName       = "no-counts"
	compactFlagName        = "compact"
	jsonFlagName           = "json"
	emitFilterFlagName     = "emit-filter"
	emitFilterModeFlagName = "emit-filter-mode"
	formatFlagName         = "format"
	inputFlagName          = "input"
	configFlagName         = "config"
	copyFlagName           = "copy"
	debugFlagName          = "debug"
	versionFlagName        = "version"
	globalFlagName         = "global"
	forceFlagName          = "force"

	asciiFlagDescription          = "draw the tree with ASCII connectors"
	minCountFlagDescription       = "hide nodes counted fewer times than this"
	maxDepthFlagDescription       = "limit displayed depth below the root (0 = unlimited)"
	topFlagDescription            = "keep only the N largest children per directory (0 = all)"
	prefixFlagDescription         = "only count paths starting with this prefix"
	excludeRegexFlagDescription   = "skip paths matching this regular expression"
	includeRegexFlagDescription   = "only count paths matching this regular expression"
	extensionModeFlagDescription  = "leaf grouping: last, full, or star"
	noCountsFlagDescription       = "omit counts from text output"
	compactFlagDescription        = "merge single-child directory chains"
	jsonFlagDescription           = "shortcut for --format json"
	emitFilterFlagDescription     = "print filter suggestions to stderr"
	emitFilterModeFlagDescription = "filter suggestion style: ext, dir, or all"
	formatFlagDescription         = "output format: raw, json, xml, or yaml"
	inputFlagDescription          = "read the dump from a file instead of stdin"
	configFlagDescription         = "configuration file overriding the local " + utils.ConfigFileName
	copyFlagDescription           = "also copy the rendered output to the clipboard"
	debugFlagDescription          = "log pipeline details to stderr"
	versionFlagDescription        = "display application version"
	globalFlagDescription         = "write the global configuration under the home directory"
	forceFlagDescription          = "overwrite an existing configuration file"

	rootUse              = utils.ApplicationName
	rootShortDescription = "summarize a trust database dump as a counted tree"
	rootLongDescription  = `trusttree reads a trust database dump on stdin and aggregates its file paths
into a directory tree whose leaves group files by extension.
Use --min-count, --top, and --max-depth to shape the tree, --compact to merge
single-child chains, and --format to select raw, json, xml, or yaml output.`
	rootUsageExample = `  # Summarize the trust database
  fapolicyd-cli --dump-db | trusttree --top 10 --compact

  # Emit filter suggestions for every directory
  trusttree --input trust.dump --emit-filter --emit-filter-mode dir`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the built-in defaults to ` + utils.ConfigFileName + ` in the working directory,
or to the global configuration file with --global.`

	versionTemplate         = "trusttree version: %s\n"
	initCreatedTemplate     = "configuration written to %s\n"
	pathChannelCapacity     = 256
	errorOpenInputFormat    = "open input %s: %w"
	errorLoadConfigFormat   = "load configuration: %w"
	errorCopyFormat         = "copy output to clipboard: %w"
	errorWriteOutputFormat  = "write output: %w"
	errorLoggerFormat       = "initialize debug logger: %w"
	pipelineFinishedMessage = "dump processed"
	countMismatchMessage    = "count tree failed verification"

	warningRegexTimeoutFormat = "Warning: skipped %d paths whose regex match timed out\n"
)

// Execute runs the trusttree application.
func Execute() error {
	rootCommand := NewRootCommand(clipboard.NewService())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// commandOptions mirrors every root flag before configuration files are merged in.
type commandOptions struct {
	shaping        types.ShapingConfig
	extensionMode  string
	emitFilterMode string
	noCounts       bool
	jsonShortcut   bool
	inputPath      string
	configPath     string
	copyOutput     bool
	debug          bool
	showVersion    bool
}

// NewRootCommand builds the root Cobra command. copier receives the rendered output under --copy.
func NewRootCommand(copier clipboard.Copier) *cobra.Command {
	options := commandOptions{shaping: types.DefaultShapingConfig()}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			return runSummary(command, options, copier)
		},
	}

	flagSet := rootCommand.Flags()
	registerBooleanFlag(flagSet, &options.shaping.ASCII, asciiFlagName, false, asciiFlagDescription)
	flagSet.IntVar(&options.shaping.MinCount, minCountFlagName, types.DefaultMinCount, minCountFlagDescription)
	flagSet.IntVar(&options.shaping.MaxDepth, maxDepthFlagName, types.DefaultMaxDepth, maxDepthFlagDescription)
	flagSet.IntVar(&options.shaping.Top, topFlagName, types.DefaultTop, topFlagDescription)
	flagSet.StringVar(&options.shaping.Prefix, prefixFlagName, types.DefaultPrefix, prefixFlagDescription)
	flagSet.StringVar(&options.shaping.ExcludeRegex, excludeRegexFlagName, "", excludeRegexFlagDescription)
	flagSet.StringVar(&options.shaping.IncludeRegex, includeRegexFlagName, "", includeRegexFlagDescription)
	flagSet.StringVar(&options.extensionMode, extensionModeFlagName, string(types.DefaultExtensionMode), extensionModeFlagDescription)
	registerBooleanFlag(flagSet, &options.noCounts, noCountsFlagName, false, noCountsFlagDescription)
	registerBooleanFlag(flagSet, &options.shaping.Compact, compactFlagName, types.DefaultCompactEnabled, compactFlagDescription)
	registerBooleanFlag(flagSet, &options.jsonShortcut, jsonFlagName, false, jsonFlagDescription)
	registerBooleanFlag(flagSet, &options.shaping.EmitFilter, emitFilterFlagName, false, emitFilterFlagDescription)
	flagSet.StringVar(&options.emitFilterMode, emitFilterModeFlagName, string(types.DefaultFilterMode), emitFilterModeFlagDescription)
	flagSet.StringVar(&options.shaping.Format, formatFlagName, types.DefaultOutputFormat, formatFlagDescription)
	flagSet.StringVar(&options.inputPath, inputFlagName, "", inputFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &options.copyOutput, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &options.debug, debugFlagName, false, debugFlagDescription)
	registerBooleanFlag(flagSet, &options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	return rootCommand
}

func createInitCommand() *cobra.Command {
	var initOptions config.InitOptions
	var global bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			initOptions.Target = config.InitTargetLocal
			if global {
				initOptions.Target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(initOptions)
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), initCreatedTemplate, path)
			return printError
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &initOptions.Force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveShapingConfig layers defaults, configuration files, and explicitly set flags.
func resolveShapingConfig(command *cobra.Command, options commandOptions) (types.ShapingConfig, error) {
	fileConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if loadError != nil {
		return types.ShapingConfig{}, fmt.Errorf(errorLoadConfigFormat, loadError)
	}
	resolved := fileConfiguration.ApplyTo(types.DefaultShapingConfig())

	flags := command.Flags()
	changed := flags.Changed
	if changed(asciiFlagName) {
		resolved.ASCII = options.shaping.ASCII
	}
	if changed(minCountFlagName) {
		resolved.MinCount = options.shaping.MinCount
	}
	if changed(maxDepthFlagName) {
		resolved.MaxDepth = options.shaping.MaxDepth
	}
	if changed(topFlagName) {
		resolved.Top = options.shaping.Top
	}
	if changed(prefixFlagName) {
		resolved.Prefix = options.shaping.Prefix
	}
	if changed(excludeRegexFlagName) {
		resolved.ExcludeRegex = options.shaping.ExcludeRegex
	}
	if changed(includeRegexFlagName) {
		resolved.IncludeRegex = options.shaping.IncludeRegex
	}
	if changed(extensionModeFlagName) {
		resolved.ExtensionMode = types.ExtensionMode(options.extensionMode)
	}
	if changed(noCountsFlagName) {
		resolved.ShowCounts = !options.noCounts
	}
	if changed(compactFlagName) {
		resolved.Compact = options.shaping.Compact
	}
	if changed(emitFilterFlagName) {
		resolved.EmitFilter = options.shaping.EmitFilter
	}
	if changed(emitFilterModeFlagName) {
		resolved.EmitFilterMode = types.FilterMode(options.emitFilterMode)
	}
	if changed(formatFlagName) {
		resolved.Format = options.shaping.Format
	}
	if options.jsonShortcut {
		resolved.Format = types.FormatJSON
	}

	if !output.IsSupportedFormat(resolved.Format) {
		return types.ShapingConfig{}, fmt.Errorf("%w %q", output.ErrUnsupportedFormat, resolved.Format)
	}
	extensionMode, extensionModeError := tree.ParseExtensionMode(string(resolved.ExtensionMode))
	if extensionModeError != nil {
		return types.ShapingConfig{}, extensionModeError
	}
	resolved.ExtensionMode = extensionMode
	filterMode, filterModeError := filterpattern.ParseMode(string(resolved.EmitFilterMode))
	if filterModeError != nil {
		return types.ShapingConfig{}, filterModeError
	}
	resolved.EmitFilterMode = filterMode
	return resolved, nil
}

func newCommandLogger(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	logger, loggerError := utils.NewDebugLogger()
	if loggerError != nil {
		return nil, fmt.Errorf(errorLoggerFormat, loggerError)
	}
	return logger, nil
}

func openInput(command *cobra.Command, inputPath string) (io.ReadCloser, error) {
	if inputPath == "" {
		return io.NopCloser(command.InOrStdin()), nil
	}
	inputFile, openError := os.Open(inputPath)
	if openError != nil {
		return nil, fmt.Errorf(errorOpenInputFormat, inputPath, openError)
	}
	return inputFile, nil
}

// runSummary validates the configuration, builds the count tree from the dump,
// and renders the shaped view.
func runSummary(command *cobra.Command, options commandOptions, copier clipboard.Copier) error {
	shaping, resolveError := resolveShapingConfig(command, options)
	if resolveError != nil {
		return resolveError
	}
	builder, builderError := tree.NewBuilder(shaping)
	if builderError != nil {
		return builderError
	}
	logger, loggerError := newCommandLogger(options.debug)
	if loggerError != nil {
		return loggerError
	}
	defer func() { _ = logger.Sync() }()
	builder.SetLogger(logger)

	input, inputError := openInput(command, options.inputPath)
	if inputError != nil {
		return inputError
	}
	defer input.Close()

	reader := dump.NewReader(input, logger)
	if streamError := buildFromDump(command, reader, builder); streamError != nil {
		return streamError
	}

	root := builder.Root()
	settleCounts(root, logger)
	readerStats := reader.Stats()
	builderStats := builder.Stats()
	if builderStats.TimedOut > 0 {
		fmt.Fprintf(command.ErrOrStderr(), warningRegexTimeoutFormat, builderStats.TimedOut)
	}
	logger.Debug(pipelineFinishedMessage,
		zap.Int("lines", readerStats.Lines),
		zap.Int("skipped", readerStats.Skipped),
		zap.Int("malformed", readerStats.Malformed),
		zap.Int("accepted", builderStats.Accepted),
		zap.Int("filtered", builderStats.Filtered),
		zap.Int("timed_out", builderStats.TimedOut),
	)

	view := tree.Shape(root, shaping)
	rendered, renderError := output.RenderTree(shaping.Format, view, output.RawOptions{ASCII: shaping.ASCII, ShowCounts: shaping.ShowCounts})
	if renderError != nil {
		return renderError
	}
	if _, writeError := io.WriteString(command.OutOrStdout(), rendered); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, writeError)
	}

	if shaping.EmitFilter {
		suggestions := filterpattern.Collect(view, shaping.EmitFilterMode)
		if writeError := filterpattern.Write(command.ErrOrStderr(), suggestions); writeError != nil {
			return writeError
		}
	}

	if options.copyOutput && copier != nil {
		if copyError := copier.Copy(rendered); copyError != nil {
			return fmt.Errorf(errorCopyFormat, copyError)
		}
	}
	return nil
}

// settleCounts reports a count tree left inconsistent by construction, then
// recomputes every directory count from its children.
func settleCounts(root *tree.Node, logger *zap.Logger) {
	if verifyError := tree.Verify(root); verifyError != nil {
		logger.Debug(countMismatchMessage, zap.Error(verifyError))
	}
	tree.Propagate(root)
}

// buildFromDump streams dump paths through a bounded channel into builder.
func buildFromDump(command *cobra.Command, reader *dump.Reader, builder *tree.Builder) error {
	parentContext := command.Context()
	if parentContext == nil {
		parentContext = context.Background()
	}
	paths := make(chan string, pathChannelCapacity)
	group, groupContext := errgroup.WithContext(parentContext)
	group.Go(func() error {
		defer close(paths)
		return reader.Stream(groupContext, paths)
	})
	group.Go(func() error {
		for path := range paths {
			builder.Add(path)
		}
		return nil
	})
	return group.Wait()
}
