package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest <search term>",
	Short: "List close company-name candidates from both datasets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		term := strings.Join(args, " ")

		env, err := initEngine(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		out, err := env.Engine.SearchSimilar(term, suggestLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return eris.Wrap(err, "encode suggestions")
		}
		return nil
	},
}

func init() {
	registerDataFlags(suggestCmd)
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "max suggestions per dataset (default from config)")
	rootCmd.AddCommand(suggestCmd)
}
