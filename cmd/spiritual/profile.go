package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/spiritual"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/wire"
	"github.com/spf13/cobra"
)

func newProfileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage player profiles",
		Long:  `Create, list, inspect, update and remove player profiles in the configured store.`,
	}
	cmd.AddCommand(
		newProfileNewCmd(c),
		newProfileListCmd(c),
		newProfileShowCmd(c),
		newProfileDeleteCmd(c),
		newProfileAchieveCmd(c),
		newProfileSkillCmd(c),
		newProfileGiveCmd(c),
	)
	return cmd
}

// withEngine runs fn with a configured engine and releases it afterwards.
func (c *cli) withEngine(fn func(eng *spiritual.Engine) error) (err error) {
	eng, closeFn, err := c.newEngine(nil)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeFn()) }()
	return fn(eng)
}

func newProfileNewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "new <player-name>",
		Short: "Create a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(func(eng *spiritual.Engine) error {
				if _, err := eng.Profiles().Create(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created profile '%s'\n", args[0])
				return nil
			})
		},
	}
}

func newProfileListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List valid profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(func(eng *spiritual.Engine) error {
				names, err := eng.Store().List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(names) == 0 {
					fmt.Fprintln(out, "No profiles found.")
					return nil
				}
				for _, name := range names {
					fmt.Fprintln(out, "- "+name)
				}
				return nil
			})
		},
	}
}

func newProfileShowCmd(c *cli) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <player-name>",
		Short: "Print a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := wire.ParseFormat(format)
			if err != nil {
				return err
			}
			return c.withEngine(func(eng *spiritual.Engine) error {
				profile, err := eng.Store().Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return wire.Encode(cmd.OutOrStdout(), profile.Dump(), f)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}

func newProfileDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <player-name>...",
		Aliases: []string{"rm"},
		Short:   "Remove one or more profiles",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(func(eng *spiritual.Engine) error {
				var errs []error
				for _, name := range args {
					if err := eng.Store().Delete(cmd.Context(), name); err != nil {
						errs = append(errs, fmt.Errorf("remove '%s': %w", name, err))
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed profile '%s'\n", name)
				}
				return errors.Join(errs...)
			})
		},
	}
}

// update applies fn to a stored profile and reports the result.
func (c *cli) update(ctx context.Context, cmd *cobra.Command, name string, fn func(*domain.Profile) error) error {
	return c.withEngine(func(eng *spiritual.Engine) error {
		if _, err := eng.Profiles().Update(ctx, name, fn); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated profile '%s'\n", name)
		return nil
	})
}

func newProfileAchieveCmd(c *cli) *cobra.Command {
	var lock bool
	cmd := &cobra.Command{
		Use:   "achieve <player-name> <achievement>",
		Short: "Unlock (or with --lock, relock) an achievement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.update(cmd.Context(), cmd, args[0], func(p *domain.Profile) error {
				p.SetAchievement(args[1], !lock)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&lock, "lock", false, "Mark the achievement as locked")
	return cmd
}

func newProfileSkillCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "skill <player-name> <skill> <level>",
		Short: "Set a skill level",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", args[2], err)
			}
			return c.update(cmd.Context(), cmd, args[0], func(p *domain.Profile) error {
				p.SetSkill(args[1], level)
				return nil
			})
		},
	}
}

func newProfileGiveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "give <player-name> <item-json>",
		Short: "Add an item to the inventory",
		Long:  `Adds an item to a player's inventory. The item is any JSON value, e.g. '{"name": "potion"}'.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := wire.UnmarshalJSON([]byte(args[1]))
			if err != nil {
				return fmt.Errorf("invalid item: %w", err)
			}
			return c.update(cmd.Context(), cmd, args[0], func(p *domain.Profile) error {
				return p.AddItem(item)
			})
		},
	}
}
