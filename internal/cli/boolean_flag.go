package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleTypeName       = "bool"
	toggleImplicitValue  = "true"
	toggleAcceptedValues = "true, false, yes, no, on, off, 1, 0"

	errorToggleValueFormat = "%w %q for --%s (accepted: %s)"
)

// errInvalidToggle reports a value outside the accepted on/off literals.
var errInvalidToggle = errors.New("invalid boolean value")

var toggleLiterals = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"1":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"0":     false,
}

// parseToggle maps a literal to its boolean. An empty literal means the flag was given bare.
func parseToggle(literal string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(literal))
	if normalized == "" {
		normalized = toggleImplicitValue
	}
	value, known := toggleLiterals[normalized]
	return value, known
}

// toggleFlag is a pflag.Value accepting yes/no and on/off besides true/false,
// so that shaping switches such as --compact and --no-counts can be written
// either bare or with an explicit literal.
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	value, known := parseToggle(input)
	if !known {
		return fmt.Errorf(errorToggleValueFormat, errInvalidToggle, input, flag.name, toggleAcceptedValues)
	}
	*flag.target = value
	return nil
}

func (flag *toggleFlag) String() string {
	if flag == nil || flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

// Type reports "bool" so help output and shell completion treat the flag as a switch.
func (flag *toggleFlag) Type() string {
	return toggleTypeName
}

// registerBooleanFlag binds a toggle flag to target, initializing target to defaultValue.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlag{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleImplicitValue
}

// normalizeBooleanFlagArguments rewrites "--flag literal" into "--flag=literal" for toggle
// flags, since pflag never consumes a separate value for a flag with NoOptDefVal.
// Arguments after "--" are left alone.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggles := toggleFlagNames(command)
	if len(toggles) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(argument, "--")
		if isLongFlag && !strings.Contains(name, "=") && toggles[name] && index+1 < len(arguments) {
			literal := arguments[index+1]
			if _, known := parseToggle(literal); known && strings.TrimSpace(literal) != "" {
				normalized = append(normalized, argument+"="+literal)
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

// toggleFlagNames collects toggle flag names from command and every subcommand.
func toggleFlagNames(command *cobra.Command) map[string]bool {
	names := map[string]bool{}
	var visit func(current *cobra.Command)
	visit = func(current *cobra.Command) {
		collect := func(flag *pflag.Flag) {
			if _, isToggle := flag.Value.(*toggleFlag); isToggle {
				names[flag.Name] = true
			}
		}
		current.PersistentFlags().VisitAll(collect)
		current.Flags().VisitAll(collect)
		for _, child := range current.Commands() {
			visit(child)
		}
	}
	visit(command)
	return names
}
