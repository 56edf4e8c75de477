package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *options) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if write {
				if err := cfg.Save(opts.configPath); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", opts.configPath)
				return nil
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective configuration to --config")
	return cmd
}
