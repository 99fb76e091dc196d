// Command callorder-orders lets the restaurant browse the orders taken by
// the phone agent.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/PabloGalante/callorder-agent/internal/adapters/storage"
	"github.com/PabloGalante/callorder-agent/internal/app/orders"
	"github.com/PabloGalante/callorder-agent/internal/config"
	"github.com/PabloGalante/callorder-agent/internal/menu"
	"github.com/PabloGalante/callorder-agent/internal/observability"
)

// app is what every subcommand works on once the store is open.
type app struct {
	orders  *orders.Service
	backend *storage.Backend
	catalog *menu.Catalog
	render  *renderer
	outDir  string
}

func main() {
	_ = godotenv.Load()

	var (
		backendName string
		dir         string
		dsn         string
		plain       bool
		a           = &app{}
	)

	rootCmd := &cobra.Command{
		Use:           "callorder-orders",
		Short:         "Browse the orders taken over the phone",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("storage") {
				cfg.StorageBackend = backendName
			}
			if cmd.Flags().Changed("dir") {
				cfg.OrdersDir = dir
			}
			if cmd.Flags().Changed("dsn") {
				cfg.SQLDSN = dsn
			}
			// The viewer only reads; it never announces orders.
			cfg.AMQPURL = ""

			// Keep store chatter off the terminal.
			observability.Setup(os.Stderr, "warn")

			catalog := menu.Default()
			if cfg.MenuPath != "" {
				if catalog, err = menu.Load(cfg.MenuPath); err != nil {
					return err
				}
			}

			backend, err := storage.Open(cmd.Context(), cfg, menu.NewStatic(catalog))
			if err != nil {
				return err
			}
			if backend.Lister == nil {
				backend.Close()
				return fmt.Errorf("storage %q cannot list orders", cfg.StorageBackend)
			}

			pretty := !plain && term.IsTerminal(int(os.Stdout.Fd()))
			color.NoColor = !pretty

			a.backend = backend
			a.orders = orders.NewService(backend.Lister)
			a.catalog = catalog
			a.render = newRenderer(pretty, catalog)
			a.outDir = cfg.OrdersDir
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.backend != nil {
				return a.backend.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&backendName, "storage", "", "Storage backend (file|sqlite|postgres|firestore)")
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "d", "", "Orders directory for the file backend")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database DSN for the sql backends")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Disable colors and decorations")

	rootCmd.AddCommand(
		listCmd(a),
		showCmd(a),
		latestCmd(a),
		todayCmd(a),
		summaryCmd(a),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
