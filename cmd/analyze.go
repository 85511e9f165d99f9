package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/scorer"
)

var analyzePlaybook bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <company name>",
	Short: "Screen a single company and print its risk assessment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := strings.Join(args, " ")

		env, err := initEngine(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Engine.Analyze(name)
		if err != nil {
			return err
		}

		zap.L().Info("analysis complete",
			zap.String("company", name),
			zap.String("level", res.RiskAssessment.Level),
			zap.Bool("found", res.Match.Found),
		)

		out := struct {
			Result   any              `json:"result"`
			Playbook *scorer.Playbook `json:"playbook,omitempty"`
		}{Result: res}
		if analyzePlaybook {
			pb := env.Engine.Playbook(res.RiskAssessment.Level)
			out.Playbook = &pb
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return eris.Wrap(err, "encode analysis result")
		}
		return nil
	},
}

func init() {
	registerDataFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzePlaybook, "playbook", false, "include the detailed engagement playbook")
	rootCmd.AddCommand(analyzeCmd)
}
