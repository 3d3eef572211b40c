package main

import (
	"os"
	"runtime"

	"github.com/kk-code-lab/rbrowse/internal/shellsetup"
	"github.com/spf13/cobra"
)

var executablePath = os.Executable

// NewShellInitCmd creates the shell-init command
func NewShellInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell-init [shell]",
		Short: "Print a shell function that changes to the last browsed directory",
		Long: `shell-init prints a function named "` + shellsetup.FunctionName + `" for bash, zsh, fish or
PowerShell. Add its output to your shell profile, for example:

    eval "$(rbrowse shell-init bash)"

The shell is detected from $SHELL when not given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := shellsetup.Detect(runtime.GOOS, os.Getenv)
			if len(args) == 1 {
				shell = args[0]
			}
			exe, err := executablePath()
			if err != nil {
				exe = "rbrowse"
			}
			return shellsetup.Write(cmd.OutOrStdout(), shell, exe)
		},
	}
}
