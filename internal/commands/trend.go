package commands

import (
	"fmt"
	"math"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/healinghorizons/dashboard/internal/chart"
	"github.com/healinghorizons/dashboard/internal/trend"
)

func addTrend(topLevel *cobra.Command) {
	days := 30
	volatility := 0.2
	var seed uint64
	var animate time.Duration
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Print a synthetic recovery curve.",
		Example: `
hhctl trend --days 14 --volatility 0.3
hhctl trend --animate 1s
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			gen := trend.New(nil)
			if cmd.Flags().Changed("seed") {
				gen = trend.NewSeeded(seed)
			}
			data, err := gen.Generate(days, volatility)
			if err != nil {
				return err
			}
			labels := trend.Labels(days)

			bold := color.New(color.Bold)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("Day"), bold.Sprint("Score"))
			for i, v := range data {
				c := color.New(trendColor(v))
				tbl.AddRow(labels[i], c.Sprintf("%.2f", v))
			}
			tbl.RightAlign(1)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "average %.2f\n", chart.Average(data))
			if !cmd.Flags().Changed("animate") || len(data) == 0 {
				return nil
			}
			return animateRecovery(cmd, int(math.Round(data[len(data)-1])), animate)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", days, "Number of days to generate.")
	cmd.Flags().Float64VarP(&volatility, "volatility", "v", volatility, "Maximum daily swing.")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible curve.")
	cmd.Flags().DurationVar(&animate, "animate", 0, "Count the final recovery score up over this duration.")

	topLevel.AddCommand(cmd)
}

// animateRecovery redraws a single "Recovery n%" line until it reaches score.
func animateRecovery(cmd *cobra.Command, score int, d time.Duration) error {
	out := cmd.OutOrStdout()
	err := chart.Animate(cmd.Context(), 0, score, d, 16*time.Millisecond, func(frame string) {
		_, _ = fmt.Fprintf(out, "\rRecovery %s", frame)
	})
	_, _ = fmt.Fprintln(out)
	return err
}

// trendColor colours a recovery score on the generator's scale.
func trendColor(v float64) color.Attribute {
	return colorAttr(chart.ColorForValue(v, trend.Ceiling))
}

// colorAttr maps the dashboard colour ramp onto terminal colours.
func colorAttr(hex string) color.Attribute {
	switch hex {
	case "#ef4444":
		return color.FgRed
	case "#f59e0b":
		return color.FgYellow
	case "#10b981":
		return color.FgGreen
	default:
		return color.FgMagenta
	}
}
