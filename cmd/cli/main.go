package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"progeval/adapters/tabular"
	"progeval/app"
	"progeval/domain/study"
	"progeval/internal"
	"progeval/internal/analysis/power"
	"progeval/internal/config"
	"progeval/internal/report"
	"progeval/internal/studygen"
	"progeval/ports"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "progeval",
		Short: "Program evaluation toolkit: power analysis, descriptives, mean comparison and association tests",
	}

	rootCmd.AddCommand(
		newPowerCmd(),
		newEvaluateCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPowerCmd() *cobra.Command {
	var effectSize, alpha, pw float64
	var sampleSize int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "power",
		Short: "Solve the two-sample power analysis for the omitted parameter",
		Long: "Supply exactly three of --effect-size, --alpha, --power and --n; " +
			"the omitted one is solved for.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := power.Request{}
			if cmd.Flags().Changed("effect-size") {
				req.EffectSize = power.Float(effectSize)
			}
			if cmd.Flags().Changed("alpha") {
				req.Alpha = power.Float(alpha)
			}
			if cmd.Flags().Changed("power") {
				req.Power = power.Float(pw)
			}
			if cmd.Flags().Changed("n") {
				req.SampleSize = power.Int(sampleSize)
			}

			result, err := power.Solve(req)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(result)
			}
			fmt.Print(report.RenderPower(result))
			return nil
		},
	}

	cmd.Flags().Float64Var(&effectSize, "effect-size", 0.5, "standardized effect size (Cohen's d)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "two-tailed significance level")
	cmd.Flags().Float64Var(&pw, "power", 0.80, "target statistical power")
	cmd.Flags().IntVar(&sampleSize, "n", 0, "sample size per group")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of markdown")

	return cmd
}

func newEvaluateCmd() *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the full evaluation over a CSV/XLSX file or the built-in demo study",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if file != "" {
				cfg.Data.File = file
			}

			ds, source, err := loadDataset(cfg)
			if err != nil {
				return err
			}

			svc := app.NewEvaluationService(nil, internal.NewDefaultLogger())
			rep, err := svc.Evaluate(context.Background(), ds, source, app.AnalysisSpec{
				GroupColumn:    cfg.Data.GroupColumn,
				PretestColumn:  cfg.Data.PretestColumn,
				PosttestColumn: cfg.Data.PosttestColumn,
				FollowupColumn: cfg.Data.FollowupColumn,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(rep)
			}
			fmt.Print(report.Render(rep))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX dataset (defaults to DATA_FILE, then the demo study)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of markdown")

	return cmd
}

func newGenerateCmd() *cobra.Command {
	var out string
	var seed int64
	var shuffle bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the demo study dataset to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := studygen.DefaultConfig()
			cfg.Shuffle = shuffle
			cfg.Seed = seed

			ds, err := studygen.Generate(cfg)
			if err != nil {
				return err
			}
			if err := writeCSV(out, ds); err != nil {
				return err
			}
			fmt.Printf("wrote %d records to %s\n", ds.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "study.csv", "output CSV path")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle record order")

	return cmd
}

func loadDataset(cfg *config.Config) (*study.Dataset, string, error) {
	if cfg.Data.File != "" {
		var reader ports.DatasetReader = tabular.NewDataReader(cfg.Data.File)
		ds, err := reader.Read()
		if err != nil {
			return nil, "", err
		}
		return ds, cfg.Data.File, nil
	}
	ds, err := studygen.Generate(studygen.DefaultConfig())
	if err != nil {
		return nil, "", err
	}
	return ds, "generated", nil
}

func writeCSV(path string, ds *study.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	names := ds.ColumnNames()
	if err := w.Write(names); err != nil {
		return err
	}

	cells := make([][]string, len(names))
	for j, name := range names {
		kind, err := ds.Kind(name)
		if err != nil {
			return err
		}
		if kind == study.KindNumeric {
			values, err := ds.Numeric(name)
			if err != nil {
				return err
			}
			col := make([]string, len(values))
			for i, v := range values {
				col[i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			cells[j] = col
		} else {
			labels, err := ds.Categorical(name)
			if err != nil {
				return err
			}
			cells[j] = labels
		}
	}

	record := make([]string, len(names))
	for i := 0; i < ds.Len(); i++ {
		for j := range names {
			record[j] = cells[j][i]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
