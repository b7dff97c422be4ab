package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"shop-admin/config"
	"shop-admin/internal/models"
	"shop-admin/internal/service"

	"github.com/spf13/cobra"
)

// ErrDrift is returned when at least one order total disagrees with its lines
var ErrDrift = errors.New("order totals drifted")

// checkTotalsCmd compares every order's stored total with its lines
var checkTotalsCmd = &cobra.Command{
	Use:   "check-totals",
	Short: "Report orders whose stored total differs from the sum of their lines",
	Long: `Scan every order and compare total_amount with SUM(line_price).

Exits non-zero when any order has drifted.

Examples:
  shopctl check-totals
  shopctl check-totals --json
  shopctl check-totals --db postgres://shop@localhost/shop?search_path=shop`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckTotals(cmd.Context(), os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(checkTotalsCmd)
}

func runCheckTotals(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openStore(config.Load())
	if err != nil {
		return err
	}
	defer s.Close()

	drifted, err := service.NewTotalsReconciler(s).CheckAll(ctx)
	if err != nil {
		return err
	}

	if err := printDrift(out, drifted); err != nil {
		return err
	}
	if len(drifted) > 0 {
		return fmt.Errorf("%w: %d order(s)", ErrDrift, len(drifted))
	}
	return nil
}

func printDrift(out io.Writer, drifted []models.OrderTotals) error {
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(drifted)
	}

	if len(drifted) == 0 {
		fmt.Fprintln(out, "All order totals match their lines.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSTORED\tLINES\tDRIFT\tLINE COUNT")
	for _, t := range drifted {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
			t.OrderID,
			t.Stored.StringFixed(2),
			t.LinesTotal.StringFixed(2),
			t.Drift().StringFixed(2),
			t.LineCount)
	}
	return w.Flush()
}
