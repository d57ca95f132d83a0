package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrohub-unirv/edital-hub/internal/bootstrap"
	"github.com/agrohub-unirv/edital-hub/internal/modules/service"
)

var (
	refreshDryRun  bool
	refreshVerbose bool
)

// refreshStatusCmd is the daily reconciliation pass, meant to be driven by
// an external scheduler (cron). It must not run concurrently with itself;
// single-instance execution is the scheduler's responsibility.
var refreshStatusCmd = &cobra.Command{
	Use:   "refresh-status",
	Short: "Recompute edital statuses from their dates",
	Long: "Walks every edital and applies the date-based status rules: open editais past " +
		"their end date close, editais with a future start date become scheduled, and " +
		"scheduled editais whose window has arrived open. Idempotent; failures on " +
		"individual records are reported and skipped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		inj := bootstrap.BuildContainer()

		log := do.MustInvoke[*zap.Logger](inj)
		rdb := do.MustInvoke[*redis.Client](inj)
		defer rdb.Close()

		svc := do.MustInvoke[service.EditalService](inj)

		report, err := svc.RefreshStatuses(context.Background(), refreshDryRun)
		if err != nil {
			return err
		}

		if refreshVerbose {
			for _, ch := range report.Changes {
				fmt.Printf("%s: %s -> %s\n", ch.Slug, ch.From, ch.To)
			}
			for _, f := range report.Failures {
				fmt.Printf("FAILED %s: %s\n", f.Slug, f.Err)
			}
		}
		fmt.Printf("examined=%d changed=%d failed=%d dry_run=%t\n",
			report.Examined, len(report.Changes), len(report.Failures), report.DryRun)

		if len(report.Failures) > 0 {
			log.Sugar().Errorw("refresh finished with failures", "failed", len(report.Failures))
			return fmt.Errorf("%d editais failed to update", len(report.Failures))
		}
		return nil
	},
}

func init() {
	refreshStatusCmd.Flags().BoolVar(&refreshDryRun, "dry-run", false, "report intended changes without committing")
	refreshStatusCmd.Flags().BoolVarP(&refreshVerbose, "verbose", "v", false, "print every transition")
	rootCmd.AddCommand(refreshStatusCmd)
}
