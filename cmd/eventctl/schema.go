package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCmd(flags *storeFlags) *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the events table",
	}

	schemaCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the events table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.repo.InitSchema(cmd.Context()); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema initialized (%s)\n", s.cfg.Store.Driver)
			return nil
		},
	})

	return schemaCmd
}
