package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kolemannix/bfl-sub000/cmd/bflc/fixture"
	"github.com/kolemannix/bfl-sub000/internal/diagnostics"
	"github.com/kolemannix/bfl-sub000/internal/elaborate"
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

var checkNoColor bool

var checkCmd = &cobra.Command{
	Use:   "check <fixture.json>",
	Short: "Elaborate a parsed-module fixture and report diagnostics",
	Long: `check reads a JSON fixture describing an already-parsed bfl
module (see cmd/bflc/fixture for the format), runs it through the
elaborator, and prints "ok" on success or every TyperError on failure.

Exit status is non-zero whenever elaboration produces any error.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable colored diagnostic output")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", filename, err)
	}

	files := source.NewFiles()
	fileID := files.Add(filename, string(data))

	idents := ident.New()
	dec := fixture.NewDecoder(idents, fileID)
	program, err := dec.DecodeProgram(data)
	if err != nil {
		return fmt.Errorf("failed to decode fixture: %w", err)
	}

	e := elaborate.New(idents, files)
	module := e.Elaborate(program)

	if module.Succeeded() {
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), diagnostics.FormatAll(files, module.Errors, !checkNoColor))
	fmt.Fprintln(cmd.ErrOrStderr())
	return fmt.Errorf("elaboration failed with %d error(s)", len(module.Errors))
}
