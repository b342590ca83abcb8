// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree. A node either groups
// Subcommands, runs something, or both; with both, Run handles any
// first argument that is not a subcommand name.
type Command struct {
	Name    string
	Summary string

	// Description replaces Summary at the top of the command's own help.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Flags builds the command's flag set. It is called once per
	// parse and once per help rendering, so it must return a fresh set.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	Run func(args []string) error

	// HelpOutput receives help text. Subcommands inherit it from their
	// parent; the root defaults to stderr.
	HelpOutput io.Writer

	parent *Command
}

// Example is a commented command line shown in help output.
type Example struct {
	Description string
	Command     string
}

var errSubcommandRequired = errors.New("subcommand required")

// Execute routes args through the tree and runs the selected command.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpOutput())
		return nil
	}

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		if sub := c.lookup(args[0]); sub != nil {
			sub.parent = c
			return sub.Execute(args[1:])
		}
		if len(c.Subcommands) > 0 && c.Run == nil {
			return c.unknownCommand(args[0])
		}
	}

	if c.Run == nil {
		c.PrintHelp(c.helpOutput())
		if len(c.Subcommands) == 0 {
			return fmt.Errorf("%s: nothing to run", c.fullName())
		}
		if len(args) > 0 {
			return fmt.Errorf("%w (got flag %q)", errSubcommandRequired, args[0])
		}
		return errSubcommandRequired
	}

	positional, helpRequested, err := c.parseFlags(args)
	if err != nil {
		return err
	}
	if helpRequested {
		c.PrintHelp(c.helpOutput())
		return nil
	}
	return c.Run(positional)
}

func (c *Command) lookup(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func (c *Command) unknownCommand(name string) error {
	hint := fmt.Sprintf("Run '%s --help' for usage.", c.fullName())
	if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
		return fmt.Errorf("unknown command %q (did you mean %q?)\n\n%s", name, suggestion, hint)
	}
	return fmt.Errorf("unknown command %q\n\n%s", name, hint)
}

// parseFlags returns the positional arguments, or reports that -h or
// --help was among the flags.
func (c *Command) parseFlags(args []string) ([]string, bool, error) {
	if c.Flags == nil {
		return args, false, nil
	}

	flagSet := c.Flags()
	// Errors are reported through the returned error, with suggestions.
	flagSet.SetOutput(io.Discard)

	err := flagSet.Parse(args)
	switch {
	case err == nil:
		return flagSet.Args(), false, nil
	case errors.Is(err, pflag.ErrHelp):
		return nil, true, nil
	}

	hint := fmt.Sprintf("Run '%s --help' for usage.", c.fullName())
	message := err.Error()
	if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand flag") {
		// The failed parse may have left state behind, so suggest
		// against a fresh set.
		if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
			return nil, false, fmt.Errorf("%s (did you mean %s?)\n\n%s", message, suggestion, hint)
		}
	}
	return nil, false, fmt.Errorf("%s\n\n%s", message, hint)
}

// PrintHelp writes the command's help to w: description, usage,
// subcommands, flags and examples.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	text := c.Description
	if text == "" {
		text = c.Summary
	}
	if text != "" {
		fmt.Fprintf(w, "%s\n\n", text)
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprint(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if usages := c.Flags().FlagUsages(); usages != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", usages)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprint(w, "\nExamples:\n")
		for i, example := range c.Examples {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

// fullName is the command path from the root, e.g. "blockarchive check".
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func (c *Command) helpOutput() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.HelpOutput != nil {
			return command.HelpOutput
		}
	}
	return os.Stderr
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	}
	return false
}
