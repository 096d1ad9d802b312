// Package cmd is the CLI boundary: a single cobra command tree wrapping the
// library's expand() entry point, in the manner of the teacher's own
// cmd.RootCommand.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootCommand is the root of the flachtex CLI.
var RootCommand = &cobra.Command{
	Use:   "flachtex",
	Short: "Flatten a LaTeX document tree into one traceable file",
	Long: `flachtex resolves \input, \include, \subimport and explicit import
markers recursively, optionally strips comments and changes-package /
\todo / \newcommand markup, and prints the result either as flat text or
as a JSON envelope that traces every byte back to its originating file.`,
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	RootCommand.AddCommand(flattenCommand)
}
