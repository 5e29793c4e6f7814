package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/okian/creatorscore/internal/domain/ratio"
	"github.com/okian/creatorscore/internal/smoke"
	"github.com/spf13/cobra"
)

// Identifier flags shared by analyze and lookup.
var (
	fidFlag    string
	walletFlag string
	lookupWhat string
)

// What-if flags shared by simulate and sweep.
var (
	valuationFlag    float64
	scoreFlag        float64
	hypotheticalFlag float64
	sweepFrom        float64
	sweepTo          float64
	sweepSteps       int
)

// Smoke flags.
var smokeCfg smoke.Config

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetch score and market cap for a creator and classify the ratio",
	Long: `Fetch the creator score and market cap for a creator, classify their
ratio and print the report as JSON. Missing halves are listed in "missing".

Examples:
  creatorscore analyze --fid 6730
  creatorscore analyze --wallet 0x1234...`,
	RunE: runAnalyze,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Fetch one half of the report: score, valuation or credentials",
	RunE:  runLookup,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Show how the category changes if the score were different",
	RunE:  runSimulate,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Tabulate categories across a range of hypothetical scores",
	RunE:  runSweep,
}

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Check a running server against the local engine",
	Long: `Send generated what-if cases to a running server and compare every
answer with the local engine. Exits non-zero on any failure or mismatch.`,
	RunE: runSmoke,
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, lookupCmd} {
		c.Flags().StringVar(&fidFlag, "fid", "", "Farcaster FID")
		c.Flags().StringVar(&walletFlag, "wallet", "", "Wallet address (wins over --fid)")
	}
	lookupCmd.Flags().StringVar(&lookupWhat, "what", "score", "What to fetch: score, valuation, credentials")

	for _, c := range []*cobra.Command{simulateCmd, sweepCmd} {
		c.Flags().Float64Var(&valuationFlag, "valuation", 0, "Market cap in USD")
		c.Flags().Float64Var(&scoreFlag, "score", 0, "Current creator score")
		_ = c.MarkFlagRequired("valuation")
		_ = c.MarkFlagRequired("score")
	}
	simulateCmd.Flags().Float64Var(&hypotheticalFlag, "hypothetical", 0, "Hypothetical creator score")
	_ = simulateCmd.MarkFlagRequired("hypothetical")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "First hypothetical score")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", -1, "Last hypothetical score (default twice --score)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 21, "Number of points")

	smokeCmd.Flags().StringVar(&smokeCfg.BaseURL, "url", smoke.DefaultBaseURL, "Base URL of the server")
	smokeCmd.Flags().IntVar(&smokeCfg.Cases, "cases", smoke.DefaultCases, "Number of generated cases")
	smokeCmd.Flags().IntVar(&smokeCfg.Workers, "workers", smoke.DefaultWorkers, "Concurrent requests")
	smokeCmd.Flags().DurationVar(&smokeCfg.Timeout, "timeout", smoke.DefaultTimeout, "Per-request timeout")
	smokeCmd.Flags().Uint64Var(&smokeCfg.Seed, "seed", uint64(time.Now().UnixNano()), "Seed for case generation")

	rootCmd.AddCommand(analyzeCmd, lookupCmd, simulateCmd, sweepCmd, smokeCmd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	id, err := model.ParseIdentifier(fidFlag, walletFlag)
	if err != nil {
		return err
	}
	svc := buildService(cfg, log)
	report, err := svc.Analyze(cmd.Context(), id)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), report)
}

func runLookup(cmd *cobra.Command, _ []string) error {
	id, err := model.ParseIdentifier(fidFlag, walletFlag)
	if err != nil {
		return err
	}
	svc := buildService(cfg, log)
	ctx := cmd.Context()

	var out any
	switch lookupWhat {
	case "score":
		out, err = svc.CreatorScore(ctx, id)
	case "valuation":
		out, err = svc.Valuation(ctx, id)
	case "credentials":
		out, err = svc.Credentials(ctx, id)
	default:
		return fmt.Errorf("unknown --what %q: want score, valuation or credentials", lookupWhat)
	}
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	sim, err := buildService(cfg, log).Simulate(valuationFlag, scoreFlag, hypotheticalFlag)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), sim)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	to := sweepTo
	if to < 0 {
		to = 2 * scoreFlag
	}
	points, err := buildService(cfg, log).Sweep(valuationFlag, scoreFlag, sweepFrom, to, sweepSteps)
	if err != nil {
		return err
	}
	return writeSweep(cmd.OutOrStdout(), points)
}

func writeSweep(w io.Writer, points []ratio.SweepPoint) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tRATIO\tCATEGORY\tCHANGE")
	for _, p := range points {
		fmt.Fprintf(tw, "%g\t%s\t%s %s\t%s\n",
			p.Score, p.Analysis.RatioDisplay, p.Analysis.Glyph, p.Analysis.Label, p.Change)
	}
	return tw.Flush()
}

func runSmoke(cmd *cobra.Command, _ []string) error {
	stats, err := smoke.Run(cmd.Context(), smokeCfg, log)
	if perr := printJSON(cmd.OutOrStdout(), stats); perr != nil {
		return perr
	}
	return err
}
