package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/healinghorizons/dashboard/internal/events"
)

func addAnalyze(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Analyze a journal draft and suggest next steps.",
		Example: `
hhctl analyze "Today felt lighter than last week."
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc)
			_, err = events.Dispatch(cmd.Context(), svc.Bus(), events.AnalyzeRequested{Content: strings.Join(args, " ")})
			return err
		},
	}

	topLevel.AddCommand(cmd)
}

func addEntries(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List journal entries.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc)
			list, err := svc.ListEntries(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				_, _ = color.New(color.Faint, color.Italic).Fprintln(out, " none")
				return nil
			}
			bold := color.New(color.Bold)
			id := color.New(color.FgHiYellow, color.Faint)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.MaxColWidth = 60
			tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Created"), bold.Sprint("Mood"), bold.Sprint("Entry"))
			for _, e := range list {
				tbl.AddRow(id.Sprint(e.ID[:8]), e.Created.Local().Format("2006-01-02 15:04"), e.Mood, e.Content)
			}
			_, _ = fmt.Fprintln(out, tbl)
			return nil
		},
	}

	mood := ""
	var tags []string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Save a journal entry.",
		Example: `
hhctl entries add --mood hopeful "Walked by the river."
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc)
			e, err := svc.SaveEntry(cmd.Context(), strings.Join(args, " "), mood, tags)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), e.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&mood, "mood", "m", "", "Mood for the entry (happy, hopeful, neutral, sad, anxious).")
	add.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to attach; repeatable.")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a journal entry.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc)
			return svc.DeleteEntry(args[0])
		},
	}

	cmd.AddCommand(add, rm)
	topLevel.AddCommand(cmd)
}

func addStats(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journal statistics and today's affirmation.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc)
			st, err := svc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("Entries", st.TotalEntries)
			tbl.AddRow("Streak", fmt.Sprintf("%d days", st.CurrentStreak))
			tbl.AddRow("Most common mood", st.MostCommonMood)
			tbl.AddRow("Days active", st.DaysActive)
			tbl.RightAlign(0)
			_, _ = fmt.Fprintln(out, tbl)
			_, _ = fmt.Fprintln(out, "")
			_, _ = color.New(color.Italic).Fprintln(out, st.Affirmation)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as JSON into the export directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc)
			_, err = events.Dispatch(cmd.Context(), svc.Bus(), events.ExportRequested{})
			return err
		},
	}

	topLevel.AddCommand(cmd)
}

func addChart(topLevel *cobra.Command) {
	format := "png"
	var sample bool
	cmd := &cobra.Command{
		Use:   "chart <name>",
		Short: "Render a dashboard chart into the export directory.",
		Example: `
hhctl chart recovery --format svg
hhctl chart progress --sample
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc)
			mounted, err := svc.MountCharts(args)
			if err != nil {
				return err
			}
			if len(mounted) == 0 {
				return fmt.Errorf("unknown chart %q", args[0])
			}
			if sample {
				if _, err := svc.SampleChart(args[0], sampleMin, sampleMax); err != nil {
					return err
				}
			}
			if _, err := svc.ExportChart(cmd.Context(), args[0], format); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s-chart.%s\n", args[0], strings.ToLower(format))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", format, "Image format. One of png, jpeg or svg.")
	cmd.Flags().BoolVar(&sample, "sample", false, "Fill the primary series with sample scores before rendering.")

	topLevel.AddCommand(cmd)
}

func addTheme(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the dashboard theme.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc)
			switch {
			case len(args) == 0:
			case args[0] == "toggle":
				if _, err := events.Dispatch(cmd.Context(), svc.Bus(), events.ThemeToggled{}); err != nil {
					return err
				}
			default:
				if err := svc.SetTheme(args[0]); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), svc.Theme())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addCopy(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "copy <text>",
		Short: "Copy text to the system clipboard.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc)
			_, err = events.Dispatch(cmd.Context(), svc.Bus(), events.CopyRequested{Text: strings.Join(args, " ")})
			return err
		},
	}

	topLevel.AddCommand(cmd)
}
