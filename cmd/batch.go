package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-advisory/esg-screen/internal/engine"
	"github.com/meridian-advisory/esg-screen/internal/fetcher"
)

var (
	batchInput       string
	batchOutput      string
	batchConcurrency int
	batchLimit       int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Screen a CSV of company names",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		names, err := readCompanyCSV(batchInput)
		if err != nil {
			return err
		}

		env, err := initEngine(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := processBatch(ctx, env.Engine, names, batchLimit, batchConcurrency)
		if err != nil {
			return err
		}

		return writeBatchReport(report, batchOutput)
	},
}

func init() {
	registerDataFlags(batchCmd)
	batchCmd.Flags().StringVar(&batchInput, "input", "", "CSV file of company names, one per row (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write the JSON report to this file instead of stdout")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "parallel screenings (default from config)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max companies to screen (0 = all)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// BatchEntry is the per-company slice of the batch report.
type BatchEntry struct {
	Company string                 `json:"company"`
	Result  *engine.AnalysisResult `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// BatchReport is the full outcome of one batch run.
type BatchReport struct {
	RunID     string         `json:"run_id"`
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	ByLevel   map[string]int `json:"by_level"`
	Entries   []BatchEntry   `json:"entries"`
}

// readCompanyCSV reads company names from the first column, skipping a
// header row when one is present.
func readCompanyCSV(path string) ([]string, error) {
	rows, err := fetcher.ReadCSVFile(path, fetcher.CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, err
	}

	var names []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		if i == 0 && looksLikeHeader(name) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, eris.New("batch input contains no company names")
	}
	return names, nil
}

func looksLikeHeader(cell string) bool {
	lower := strings.ToLower(cell)
	return lower == "company" || lower == "company name" || lower == "name" || lower == "company_name"
}

// processBatch screens the names concurrently. Individual failures are
// recorded in the report rather than aborting the run.
func processBatch(ctx context.Context, eng *engine.Engine, names []string, limit, concurrency int) (*BatchReport, error) {
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	if concurrency <= 0 {
		concurrency = cfg.Batch.MaxConcurrent
	}
	if concurrency <= 0 {
		concurrency = 5
	}

	runID := uuid.NewString()
	zap.L().Info("processing batch",
		zap.String("run_id", runID),
		zap.Int("companies", len(names)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	entries := make([]BatchEntry, len(names))
	var succeeded, failed atomic.Int64

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := eng.Analyze(name)
			if err != nil {
				failed.Add(1)
				zap.L().Error("screening failed", zap.String("company", name), zap.Error(err))
				entries[i] = BatchEntry{Company: name, Error: err.Error()}
				return nil // don't abort the batch on individual failure
			}

			succeeded.Add(1)
			entries[i] = BatchEntry{Company: name, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	report := &BatchReport{
		RunID:     runID,
		Total:     len(names),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		ByLevel:   make(map[string]int),
		Entries:   entries,
	}
	for _, e := range entries {
		if e.Result != nil {
			report.ByLevel[e.Result.RiskAssessment.Level]++
		}
	}

	zap.L().Info("batch complete",
		zap.String("run_id", runID),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func writeBatchReport(report *BatchReport, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "create batch output")
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return eris.Wrap(err, "encode batch report")
	}
	return nil
}
