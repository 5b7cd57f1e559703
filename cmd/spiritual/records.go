package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/spiritual"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/wire"
	"github.com/spf13/cobra"
)

func newRecordsCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "records [name]",
		Short: "List game records or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range domain.Records().Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			r, err := spiritual.Record(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				data, err := r.MarshalJSON()
				if err != nil {
					return err
				}
				v, err := wire.UnmarshalJSON(data)
				if err != nil {
					return err
				}
				return wire.EncodeJSON(out, v)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FIELD\tTYPE\tDEFAULT")
			for _, f := range r.Spec().Fields {
				def := "(required)"
				if f.HasDefault {
					data, err := wire.MarshalJSON(f.Default)
					if err != nil {
						return err
					}
					def = string(data)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Type, def)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the record as JSON")
	return cmd
}
