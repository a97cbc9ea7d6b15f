package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Wendyzhou/eventkit/internal/ingest"
	"github.com/Wendyzhou/eventkit/internal/mapper"
)

func newIngestCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file|->",
		Short: "Ingest a JSON array of notifications from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.repo.InitSchema(cmd.Context()); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			pipeline := ingest.NewPipeline(mapper.New(), ingest.NewStoreWriter(s.repo, s.log), s.log)
			out, err := pipeline.Process(cmd.Context(), body)
			if err != nil {
				return fmt.Errorf("failed to ingest %s: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return body, nil
	}

	body, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return body, nil
}
