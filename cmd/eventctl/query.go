package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Wendyzhou/eventkit/internal/query"
)

func newQueryCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query key=value...",
		Short: "Run a search query, e.g. eventctl query query=recent limit=10",
		Example: `  eventctl query query=total hours=48
  eventctl query query=detailed match=all event[]=open event[]=click csv=1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.Close()

			translator := query.NewTranslator(s.repo, s.cfg.Query, s.log)
			res := translator.Run(cmd.Context(), params)

			if res.Kind == query.KindRows && params.WantsCSV() {
				return res.WriteCSV(cmd.OutOrStdout())
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Body())
		},
	}
}

// parseParams reads key=value arguments with the same list rules as a query string
func parseParams(args []string) (query.Params, error) {
	values := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", arg)
		}
		values.Add(key, value)
	}
	return query.FromValues(values), nil
}
