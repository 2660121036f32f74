package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

func analyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Dashboard analytics",
	}
	cmd.AddCommand(analyticsRecomputeCmd())
	return cmd
}

func analyticsRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recompute the dashboard snapshot now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			components, zl, err := openComponents()
			if err != nil {
				return err
			}
			defer zl.Sync()
			defer components.Service.Close()

			snapshot, err := components.Service.RecomputeAnalytics(cmd.Context())
			if err != nil {
				return fmt.Errorf("recompute analytics: %w", err)
			}

			printSnapshot(cmd, snapshot)
			return nil
		},
	}
}

func printSnapshot(cmd *cobra.Command, s *model.AnalyticsSnapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "snapshot updated at %s\n", s.UpdatedAt.Format("2006-01-02 15:04:05 MST"))

	periods := []struct {
		name  string
		stats model.PeriodStats
	}{
		{"today", s.Today},
		{"week", s.Week},
		{"month", s.Month},
		{"year", s.Year},
	}
	for _, p := range periods {
		fmt.Fprintf(out, "  %-6s orders=%d revenue=%.2f delivery=%d users=%d\n",
			p.name, p.stats.Orders, p.stats.Price, p.stats.DeliveryOrders, p.stats.Users)
	}
}
