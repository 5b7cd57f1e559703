package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/spiritual"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/schema"
	"github.com/aretw0/spiritual/pkg/wire"
	"github.com/spf13/cobra"
)

// errInvalid marks a run where some inputs failed validation.
var errInvalid = errors.New("validation failed")

func newValidateCmd(c *cli) *cobra.Command {
	var typeStr string

	cmd := &cobra.Command{
		Use:   "validate <record> <file>... | --type <type> <file>...",
		Short: "Validate data files against a record or a type",
		Long: `Validates JSON or YAML files against a game record (Profile, Ability, Piece,
Mob, Recipe, TilemapData, Tilemap) or against a type expression such as
"[Ability]" or "{string: int}". Every failing field is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			check, files, err := validator(typeStr, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range files {
				if err := validateFile(path, check); err != nil {
					failed++
					reportInvalid(out, path, err)
					continue
				}
				fmt.Fprintf(out, "%s: valid ✅\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errInvalid, failed, len(files))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeStr, "type", "t", "", "Validate against a type expression instead of a record")
	return cmd
}

// validator resolves what to check the files against.
func validator(typeStr string, args []string) (func(any) error, []string, error) {
	if typeStr != "" {
		t, err := schema.ParseType(typeStr, domain.Records())
		if err != nil {
			return nil, nil, err
		}
		return func(v any) error { return schema.Check(v, t) }, args, nil
	}

	if len(args) < 2 {
		return nil, nil, fmt.Errorf("expected a record name and at least one file")
	}
	r, err := spiritual.Record(args[0])
	if err != nil {
		return nil, nil, err
	}
	return r.Validate, args[1:], nil
}

func validateFile(path string, check func(any) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	v, err := wire.Decode(f, wire.FormatFor(path))
	if err != nil {
		return err
	}
	return check(v)
}

func reportInvalid(w io.Writer, path string, err error) {
	errs := schema.ValidationErrors(err)
	if len(errs) == 0 {
		errs = []error{err}
	}
	fmt.Fprintf(w, "%s: invalid ❌\n", path)
	for _, e := range errs {
		fmt.Fprintf(w, "  - %v\n", e)
	}
}
