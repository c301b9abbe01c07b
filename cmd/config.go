package cmd

import (
	"fmt"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/spf13/cobra"
)

func newConfigCmd(c *console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(newConfigInitCmd(c), newConfigShowCmd(c))
	return cmd
}

func newConfigInitCmd(c *console) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Long: `Write a config file with the default settings to path, or to the
default location in the data directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.paths.ConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := internal.WriteConfig(path, internal.DefaultConfig(c.paths), force); err != nil {
				return err
			}
			internal.PrintSuccess(cmd.OutOrStdout(), "Wrote "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying the config file, COMPLAINT_DESK_*
environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := internal.MarshalConfig(c.cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			out := cmd.OutOrStdout()
			source := c.cfg.File
			if source == "" {
				source = "defaults"
			}
			fmt.Fprintf(out, "# source: %s\n", source)
			_, err = out.Write(data)
			return err
		},
	}
}
