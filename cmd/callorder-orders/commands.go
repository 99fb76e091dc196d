package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/callorder-agent/internal/app/orders"
	"github.com/PabloGalante/callorder-agent/internal/app/receipt"
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

func listCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.orders.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.render.list("Orders", recs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Max orders")
	return cmd
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show N",
		Short: "Print the receipt of the Nth most recent order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("order number must be a positive integer, got %q", args[0])
			}
			recs, err := a.orders.ListRecent(cmd.Context(), n)
			if err != nil {
				return err
			}
			if len(recs) < n {
				return fmt.Errorf("only %d orders stored", len(recs))
			}
			fmt.Fprint(cmd.OutOrStdout(), a.receipt(recs[n-1]))
			return nil
		},
	}
}

func latestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Print the receipt of the most recent order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.orders.Latest(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.receipt(rec))
			return nil
		},
	}
}

func todayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List today's orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.orders.Today(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.render.list("Today's orders", recs))
			return nil
		},
	}
}

func summaryCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize every order and save the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := a.orders.Summary(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now()
			fmt.Fprint(cmd.OutOrStdout(), a.render.summary(sum, now))

			if out == "" {
				out = a.outDir
			}
			if out == "" {
				return nil
			}
			path, err := writeReport(out, a.report(sum, now), now)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.render.saved(path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Directory for the report file (defaults to the orders directory)")
	return cmd
}

func (a *app) receipt(rec *domain.CallRecord) string {
	if a.backend != nil && a.backend.Files != nil {
		return a.backend.Files.Receipt(rec)
	}
	return receipt.Render(rec, a.catalog)
}

// report is the plain-text summary saved to disk.
func (a *app) report(sum orders.Summary, now time.Time) string {
	return newRenderer(false, a.catalog).summary(sum, now)
}

func writeReport(dir, text string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, "resume_"+now.Format("20060102_150405")+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
