package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/materials/internal/core"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import materials from an xlsx or csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			service, closeStore, err := openService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			runCtx := core.ContextWithUserName(cmd.Context(), "cli")
			res, err := service.ImportMaterials(runCtx, filepath.Base(args[0]), f)
			if res == nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d of %d rows (%d blank, %d failed) in %dms\n",
				res.Created, res.TotalRows, res.Blank, len(res.Failed), res.DurationMs)
			if len(res.Failed) > 0 {
				rows := make([][]string, 0, len(res.Failed))
				for _, fail := range res.Failed {
					rows = append(rows, []string{strconv.Itoa(fail.Row), fail.Message})
				}
				fmt.Fprintln(out, renderTable([]string{"Row", "Error"}, rows, []columnAlignment{alignRight, alignLeft}))
			}
			return err
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			service, closeStore, err := openService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			stats, err := service.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderStats(stats))
			return nil
		},
	}
}

// renderStats lays out stats as one table per grouping.
func renderStats(stats core.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total materials: %d\nAdded in the last 30 days: %d\n",
		stats.TotalCount, stats.RecentAdditionsCount)

	groups := []struct {
		title  string
		counts map[string]int
	}{
		{"Type", stats.KindCounts},
		{"Category", stats.CategoryCounts},
		{"Condition", stats.ConditionCounts},
	}
	for _, g := range groups {
		if len(g.counts) == 0 {
			continue
		}
		keys := make([]string, 0, len(g.counts))
		for k := range g.counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, strconv.Itoa(g.counts[k])})
		}
		b.WriteString(renderTable([]string{g.title, "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
		b.WriteString("\n")
	}
	return b.String()
}

func newKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "kinds",
		Short:       "List material kinds and their fields",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, k := range core.DescribeKinds() {
				for _, f := range k.Fields {
					required := ""
					if f.Required {
						required = "yes"
					}
					rows = append(rows, []string{string(k.Kind), f.Name, f.Type, required, strings.Join(f.EnumValues, ", ")})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Kind", "Field", "Type", "Required", "Values"}, rows, nil))
			return nil
		},
	}
}
