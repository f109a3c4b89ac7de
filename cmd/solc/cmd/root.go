// Package cmd wires the SOL25 front-end pipeline into a cobra command.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sol25lang/solc/internal/diagnostics"
	"github.com/sol25lang/solc/internal/lexer"
	"github.com/sol25lang/solc/internal/parser"
	"github.com/sol25lang/solc/internal/semantic"
	"github.com/sol25lang/solc/internal/xmlenc"
)

const phase = "cli"

// usageText is printed verbatim by -h/--help; its wording is part of
// the external interface and the CLI tests compare output against it.
const usageText = `Usage: solc [--help]
Reads SOL25 source from standard input, performs lexical, syntactic,
and semantic analysis, and writes an XML abstract syntax tree to
standard output.
`

var rootCmd = &cobra.Command{
	Use:                "solc",
	Short:              "SOL25 compiler front-end",
	Long:               "solc reads SOL25 source from standard input and writes its validated XML abstract syntax tree to standard output.",
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	// Registering no subcommands and disabling the completion command
	// keeps rootCmd free of children, which in turn stops cobra from
	// auto-installing a "help" subcommand — "solc help" must fall
	// through to our own three-way argument dispatch, not cobra's.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Execute runs the CLI end to end and returns the process exit code.
func Execute() int {
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		if d, ok := err.(*diagnostics.Diagnostic); ok {
			fmt.Fprintln(os.Stderr, d.Error())
			return d.Code
		}
		fmt.Fprintln(os.Stderr, err)
		return diagnostics.ExitInternal
	}
	return diagnostics.ExitSuccess
}

// run implements the exact three-way CLI contract and, for the
// zero-argument case, the full read -> lex -> parse -> analyze -> emit
// pipeline. The first phase to fail short-circuits everything after
// it; nothing is written to stdout unless every phase succeeds.
func run(args []string, stdin io.Reader, stdout io.Writer) error {
	switch len(args) {
	case 0:
		// fall through to the pipeline below
	case 1:
		if args[0] == "-h" || args[0] == "--help" {
			_, err := fmt.Fprint(stdout, usageText)
			return err
		}
		return diagnostics.New(diagnostics.ExitMissingParam, phase, "unrecognized argument %q", args[0])
	default:
		return diagnostics.New(diagnostics.ExitMissingParam, phase,
			"expected zero arguments or a single -h/--help flag, got %d", len(args))
	}

	src, err := io.ReadAll(stdin)
	if err != nil {
		return diagnostics.New(diagnostics.ExitOpenInput, phase, "failed to read standard input: %v", err)
	}

	tokens, lexErr := lexer.Lex(string(src))
	if lexErr != nil {
		return lexErr
	}
	program, parseErr := parser.Parse(tokens)
	if parseErr != nil {
		return parseErr
	}
	if semErr := semantic.Analyze(program); semErr != nil {
		return semErr
	}
	out, emitErr := xmlenc.Emit(program)
	if emitErr != nil {
		return emitErr
	}
	if _, err := io.WriteString(stdout, out); err != nil {
		return diagnostics.New(diagnostics.ExitOpenOutput, phase, "failed to write standard output: %v", err)
	}
	return nil
}
