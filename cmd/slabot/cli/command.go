// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree.
type Command struct {
	// Name is the word that selects this command, e.g. "send".
	Name string

	// Summary is the one-line description listed under the parent.
	Summary string

	// Description is the longer text at the top of this command's help.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Flags builds the command's flag set. It is called again for every
	// parse and help render, so it must return a fresh set bound to the
	// same destinations.
	Flags func() *pflag.FlagSet

	// Subcommands are selected by the first positional argument.
	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	Run func(args []string) error

	// HelpOutput receives help text. Nil means os.Stderr.
	HelpOutput io.Writer

	parent *Command
}

// Example is a usage example shown in help.
type Example struct {
	Description string
	Command     string
}

// Execute dispatches args through the tree.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpOutput())
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name := args[0]
		for _, sub := range c.Subcommands {
			if sub.Name == name {
				sub.parent = c
				return sub.Execute(args[1:])
			}
		}
		if suggestion := closestCommand(name, c.Subcommands); suggestion != "" {
			return fmt.Errorf("unknown command %q (did you mean %q?)\n\nRun '%s --help' for usage.",
				name, suggestion, c.path())
		}
		return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage.", name, c.path())
	}

	if len(c.Subcommands) > 0 && c.Run == nil {
		c.PrintHelp(c.helpOutput())
		if len(args) == 0 {
			return fmt.Errorf("subcommand required")
		}
		return fmt.Errorf("subcommand required (got flag %q)", args[0])
	}

	if c.Flags != nil {
		flags := c.Flags()
		flags.SetOutput(io.Discard)
		if err := flags.Parse(args); err != nil {
			message := err.Error()
			if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand") {
				if suggestion := closestFlag(args, c.Flags()); suggestion != "" {
					return fmt.Errorf("%s (did you mean %s?)\n\nRun '%s --help' for usage.",
						message, suggestion, c.path())
				}
			}
			return fmt.Errorf("%s\n\nRun '%s --help' for usage.", message, c.path())
		}
		args = flags.Args()
	}

	if c.Run == nil {
		c.PrintHelp(c.helpOutput())
		return fmt.Errorf("no action defined for %q", c.path())
	}
	return c.Run(args)
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	switch {
	case c.Description != "":
		fmt.Fprintf(w, "%s\n\n", c.Description)
	case c.Summary != "":
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	usage := c.Usage
	if usage == "" {
		usage = c.path() + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = c.path() + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if defaults := c.Flags().FlagUsages(); defaults != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", defaults)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", c.path())
	}
}

func (c *Command) helpOutput() io.Writer {
	for node := c; node != nil; node = node.parent {
		if node.HelpOutput != nil {
			return node.HelpOutput
		}
	}
	return os.Stderr
}

// path is the full command line prefix, e.g. "slabot send".
func (c *Command) path() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.path() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
