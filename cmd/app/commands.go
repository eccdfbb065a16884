package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"airdropclient/internal/airdrop"
	"airdropclient/internal/config"
	"airdropclient/internal/eligibility"
	"airdropclient/internal/models"
	"airdropclient/internal/schedulers"
	"airdropclient/internal/services"
	"airdropclient/internal/util"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "airdropclient",
		Short:         "Driver for the 20-day staking airdrop: snapshots, claims, status",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newStatusCmd(),
		newSnapshotCmd(),
		newDaemonCmd(),
		newClaimCmd(),
		newRewardsCmd(),
		newHistoryCmd(),
	)
	return root
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the decoded pool state and snapshot progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			rec, err := a.pool.FetchState(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now().Unix()
			currentDay := airdrop.CurrentDay(rec.StartTime, now)
			missing := airdrop.MissingDays(rec, currentDay)

			vault, err := a.chain.PoolTokenAddress(a.pool.Address())
			if err != nil {
				return err
			}

			fmt.Printf("Program:         %s\n", a.chain.ProgramID())
			fmt.Printf("Pool:            %s\n", a.pool.Address())
			fmt.Printf("Pool vault:      %s\n", vault)
			fmt.Printf("Start time:      %s\n", time.Unix(rec.StartTime, 0).UTC().Format(time.RFC3339))
			fmt.Printf("Elapsed days:    %d\n", airdrop.ElapsedDays(rec.StartTime, now))
			fmt.Printf("Current slot:    %s\n", describeDay(currentDay))
			fmt.Printf("Total staked:    %s tokens\n", util.FormatTokens(rec.TotalStaked))
			fmt.Printf("Total claimed:   %s tokens\n", util.FormatTokens(rec.TotalAirdropClaimed))
			fmt.Printf("Snapshot count:  %d\n", rec.SnapshotCount)
			fmt.Printf("Paused:          %v\n", rec.Paused)
			fmt.Printf("Terminated:      %v\n", rec.Terminated)

			if len(missing) == 0 {
				fmt.Println("Snapshots:       up to date")
			} else {
				fmt.Printf("Missing days:    %v\n", missing)
			}

			deadline := airdrop.ExitDeadline(rec.StartTime)
			fmt.Printf("Exit deadline:   %s", time.Unix(deadline, 0).UTC().Format(time.RFC3339))
			if airdrop.Expired(rec.StartTime, now) {
				fmt.Print("  (expired)")
			}
			fmt.Println()
			return nil
		},
	}
}

func newSnapshotCmd() *cobra.Command {
	var backfill bool
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Submit the missing snapshot(s) for the current window",
		Long: "Submits today's snapshot if it is missing. With --backfill, all missing\n" +
			"days are submitted oldest first; without it past gaps are left alone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			signer, err := a.loadSigner()
			if err != nil {
				return err
			}

			report, err := a.snapshotService(signer).RunOnce(cmd.Context(), time.Now().Unix(), backfill)
			if err != nil {
				return err
			}
			printRunReport(report)
			if report.Failed() {
				return fmt.Errorf("snapshot run ended with status %s", report.Status)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&backfill, "backfill", config.BACKFILL, "also fill missing past days, oldest first")
	return cmd
}

func newDaemonCmd() *cobra.Command {
	var backfill bool
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the snapshot job on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			signer, err := a.loadSigner()
			if err != nil {
				return err
			}

			c, err := schedulers.Start(config.CRON_SPEC, a.snapshotService(signer), backfill)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			<-ctx.Done()

			log.Infoln("Shutting down snapshot daemon")
			<-c.Stop().Done()
			return nil
		},
	}
	cmd.Flags().BoolVar(&backfill, "backfill", config.BACKFILL, "also fill missing past days on every tick")
	return cmd
}

func newClaimCmd() *cobra.Command {
	var checkOnly bool
	cmd := &cobra.Command{
		Use:   "claim [address]",
		Short: "Claim the airdrop for the configured wallet, or check eligibility",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			dist, err := eligibility.Load(config.DISTRIBUTION_FILE)
			if err != nil {
				return err
			}
			cs := services.NewClaimService(a.pool, a.chain, a.chain, dist, a.runRepo, a.notifier)

			if checkOnly {
				user, err := resolveAddress(a, args)
				if err != nil {
					return err
				}
				verdict, err := cs.Evaluate(cmd.Context(), user, true)
				if err != nil {
					return err
				}
				fmt.Printf("Distribution: %d entries, %s tokens total\n", dist.TotalEntries, dist.TotalAmount)
				printVerdict(user, verdict)
				return nil
			}

			if len(args) > 0 {
				return fmt.Errorf("an explicit address is only valid with --check; claims sign with WALLET_KEYPAIR")
			}
			signer, err := a.loadSigner()
			if err != nil {
				return err
			}
			attempt, err := cs.Claim(cmd.Context(), signer)
			if err != nil {
				return err
			}
			fmt.Printf("Verdict: %s\n", attempt.Verdict)
			if attempt.TxSig != "" {
				fmt.Printf("Transaction: %s\n", attempt.TxSig)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkOnly, "check", false, "only report eligibility, submit nothing")
	return cmd
}

func newRewardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rewards [address]",
		Short: "Estimate staking rewards accrued by a wallet's stake",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			user, err := resolveAddress(a, args)
			if err != nil {
				return err
			}

			stake, accrued, projected, err := a.pool.RewardsEstimate(cmd.Context(), user, time.Now().Unix())
			if err != nil {
				return err
			}
			if stake == nil {
				fmt.Println("No open stake for this wallet (never claimed, or already unstaked).")
				return nil
			}
			fmt.Printf("Staked:           %s tokens (claimed on day %d)\n",
				util.FormatTokens(stake.StakedAmount), stake.ClaimDay)
			fmt.Printf("Accrued rewards:  %s tokens\n", util.FormatTokens(accrued))
			if projected > 0 {
				fmt.Printf("Projected by day %d: %s tokens more\n",
					airdrop.TotalDays, util.FormatTokens(projected))
			}
			fmt.Printf("Total on unstake: %s tokens\n", util.FormatTokens(stake.StakedAmount+accrued))
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent snapshot runs from the audit database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.AuditEnabled() {
				return fmt.Errorf("audit database is not configured (set DB_HOST etc.)")
			}
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			runs := a.runRepo.FindRecentRuns(limit)
			if runs == nil || len(*runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}
			for _, run := range *runs {
				fmt.Printf("%s  %s  day=%d  backfill=%v  %s\n",
					run.StartedAt.Format(time.RFC3339), run.Status, run.CurrentDay, run.Backfill, run.Detail)
				if days := a.runRepo.FindRunDays(run.Id.Int64); days != nil {
					for _, d := range *days {
						fmt.Printf("    day %d [%s]: %s %s %s\n", d.Day, d.Kind, d.Outcome, d.TxSig, d.Reason)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	return cmd
}

func resolveAddress(a *app, args []string) (solana.PublicKey, error) {
	if len(args) > 0 {
		return solana.PublicKeyFromBase58(args[0])
	}
	signer, err := a.loadSigner()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return signer.PublicKey(), nil
}

func describeDay(day uint64) string {
	switch {
	case day < 1:
		return "not started"
	case day > airdrop.TotalDays:
		return "window ended"
	default:
		return util.FormatDay(day)
	}
}

func printRunReport(r *models.RunReport) {
	fmt.Printf("Run status: %s (%s)\n", r.Status, describeDay(r.CurrentDay))
	if r.Detail != "" {
		fmt.Println(r.Detail)
	}
	for _, d := range r.Days {
		fmt.Printf("  day %d [%s]: %s", d.Day, d.Kind, d.Outcome)
		if d.TxSig != "" {
			fmt.Printf(" %s", d.TxSig)
		}
		if d.Reason != models.ReasonNone {
			fmt.Printf(" (%s)", d.Reason)
		}
		fmt.Println()
	}
}

func printVerdict(user solana.PublicKey, v airdrop.ClaimVerdict) {
	switch v.Kind {
	case airdrop.NotEligible:
		fmt.Printf("%s is not in the distribution.\n", user)
	case airdrop.AlreadyClaimed:
		fmt.Printf("%s has already claimed", user)
		if v.AlreadyUnstaked {
			fmt.Print(" (already unstaked)")
		} else {
			fmt.Printf(" (%s tokens still staked)", util.FormatTokens(v.StakedAmount))
		}
		fmt.Println()
	case airdrop.CheckOnly, airdrop.Claimable:
		fmt.Printf("%s is eligible for %s tokens (unclaimed).\n", user, v.Entry.HumanAmount)
	case airdrop.BlockedPaused:
		fmt.Printf("%s is eligible but the pool is paused.\n", user)
	case airdrop.BlockedTerminated:
		fmt.Printf("%s is eligible but the pool is terminated.\n", user)
	}
}
