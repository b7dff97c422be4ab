package commands

import (
	"fmt"
	"os"

	"shop-admin/config"
	"shop-admin/internal/store"
	"shop-admin/internal/util"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL      string
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Operator tools for the shop admin database",
	Long: `shopctl runs maintenance checks against the shop database.

Order totals are kept as a running sum that is raised each time a line is
added. shopctl compares that stored total with the sum of the order's line
prices and reports any order where the two disagree. It never changes data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return util.InitLogger(config.Load().Server.Env)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		util.SyncLogger()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to the server's DATABASE_URL / DB_* settings)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// openStore connects with --db when given, else with the environment config
func openStore(cfg *config.Config) (*store.Store, error) {
	dsn := cfg.Database.DSN()
	if dbURL != "" {
		db := cfg.Database
		db.URL = dbURL
		dsn = db.DSN()
	}

	s, err := store.NewStore(dsn, store.Options{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return s, nil
}
