package main

import (
	"fmt"

	"github.com/aretw0/spiritual"
	"github.com/aretw0/spiritual/internal/presentation/tui"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/schema"
	"github.com/spf13/cobra"
)

func newCatalogCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the game catalog",
	}
	cmd.AddCommand(newCatalogCheckCmd(c), newCatalogShowCmd(c))
	return cmd
}

func newCatalogCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the whole catalog and report every problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(func(eng *spiritual.Engine) error {
				out := cmd.OutOrStdout()
				cat, err := eng.Catalog(cmd.Context())
				if err != nil {
					errs := schema.ValidationErrors(err)
					if len(errs) == 0 {
						return err
					}
					fmt.Fprintf(out, "Catalog is invalid ❌ (%d problems)\n", len(errs))
					for _, e := range errs {
						fmt.Fprintf(out, "  - %v\n", e)
					}
					return fmt.Errorf("%w: %d problems", errInvalid, len(errs))
				}

				for _, kind := range domain.Kinds() {
					fmt.Fprintf(out, "%-10s %d\n", kind, len(cat.Names(kind)))
				}
				fmt.Fprintln(out, "Catalog is valid! ✅")
				return nil
			})
		},
	}
}

func newCatalogShowCmd(c *cli) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show <kind>/<name>",
		Short: "Render a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name, ok := domain.ParseEntryID(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, args[0])
			}
			return c.withEngine(func(eng *spiritual.Engine) error {
				v, err := eng.Source().GetEntry(cmd.Context(), domain.EntryID(kind, name))
				if err != nil {
					return err
				}
				record, _ := kind.Record()
				inst, err := record.Load(v)
				if err != nil {
					return err
				}

				md, err := tui.EntryMarkdown(domain.EntryID(kind, name), inst.Dump())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				rendered, err := tui.NewRenderer(plain || !isTerminal(out))(md)
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable styling")
	return cmd
}
