package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"airdropclient/internal/airdrop"
	"airdropclient/internal/models"
	"airdropclient/internal/notify"
	"airdropclient/internal/repositories"
	solclient "airdropclient/internal/solana"
)

// SnapshotSubmitter is the write side of the chain adapter for snapshot
// operations. Mocked in tests.
type SnapshotSubmitter interface {
	SubmitSnapshot(ctx context.Context, signer solana.PrivateKey, poolState solana.PublicKey) (string, error)
	SubmitBackfillSnapshot(ctx context.Context, signer solana.PrivateKey, poolState solana.PublicKey, day uint64) (string, error)
}

// ErrorClassifier maps transport errors to structured reasons. The real
// one lives in the solana package; tests inject their own.
type ErrorClassifier func(error) models.Reason

type SnapshotService struct {
	pool      *PoolService
	submitter SnapshotSubmitter
	signer    solana.PrivateKey
	classify  ErrorClassifier

	// Optional collaborators; nil disables them.
	runRepo  *repositories.RunRepository
	notifier *notify.Notifier
}

func NewSnapshotService(
	pool *PoolService,
	submitter SnapshotSubmitter,
	signer solana.PrivateKey,
	runRepo *repositories.RunRepository,
	notifier *notify.Notifier) *SnapshotService {
	return &SnapshotService{
		pool:      pool,
		submitter: submitter,
		signer:    signer,
		classify:  solclient.ClassifyError,
		runRepo:   runRepo,
		notifier:  notifier,
	}
}

// RunOnce is one complete snapshot run: fetch fresh state, decide which
// days are missing, submit them strictly in order, classify every outcome.
// All cross-run memory is the remote record itself; re-invocation with no
// intervening remote mutation produces the identical schedule.
func (s *SnapshotService) RunOnce(ctx context.Context, now int64, backfill bool) (*models.RunReport, error) {
	rec, err := s.pool.FetchState(ctx)
	if err != nil {
		return nil, err
	}

	currentDay := airdrop.CurrentDay(rec.StartTime, now)
	sched := airdrop.ScheduleSnapshots(rec, currentDay, backfill)

	report := &models.RunReport{
		CurrentDay: currentDay,
		Backfill:   backfill,
	}

	switch sched.Status {
	case airdrop.StatusBlockedPaused:
		report.Status = models.RunBlocked
		report.Detail = "pool is paused"
	case airdrop.StatusBlockedTerminated:
		report.Status = models.RunBlocked
		report.Detail = "pool is terminated"
	case airdrop.StatusNotStarted:
		report.Status = models.RunNoop
		report.Detail = "snapshot window has not started"
	case airdrop.StatusWindowEnded:
		report.Status = models.RunNoop
		report.Detail = "snapshot window has ended"
	case airdrop.StatusUpToDate:
		report.Status = models.RunNoop
		report.Detail = "all snapshots up to date"
	case airdrop.StatusPending:
		s.execute(ctx, sched.Ops, report)
	}

	log.Infof("Snapshot run: day=%d status=%s scheduled=%d", currentDay, report.Status, len(sched.Ops))

	s.record(ctx, report)
	return report, nil
}

// execute attempts the scheduled days one at a time, oldest first. Later
// days may depend on earlier days being recorded, so concurrent issuance
// is not allowed.
func (s *SnapshotService) execute(ctx context.Context, ops []airdrop.SnapshotOp, report *models.RunReport) {
	aborted := false
	failed := false

	for i, op := range ops {
		if aborted {
			report.Days = append(report.Days, models.DayResult{
				Day: op.Day, Kind: string(op.Kind), Outcome: models.OutcomeSkipped,
			})
			continue
		}

		var sig string
		var err error
		if op.Kind == airdrop.OpToday {
			sig, err = s.submitter.SubmitSnapshot(ctx, s.signer, s.pool.Address())
		} else {
			sig, err = s.submitter.SubmitBackfillSnapshot(ctx, s.signer, s.pool.Address(), op.Day)
		}

		if err == nil {
			log.Infof("Snapshot day %d submitted: %s", op.Day, sig)
			report.Days = append(report.Days, models.DayResult{
				Day: op.Day, Kind: string(op.Kind), Outcome: models.OutcomeSubmitted, TxSig: sig,
			})
			continue
		}

		reason := s.classify(err)
		switch {
		case reason == models.ReasonSnapshotAlreadyExists:
			// Race with a concurrent writer; the day is recorded, which
			// is all this run wants.
			log.Infof("Snapshot day %d already recorded elsewhere", op.Day)
			report.Days = append(report.Days, models.DayResult{
				Day: op.Day, Kind: string(op.Kind), Outcome: models.OutcomeAlreadyExists, Reason: reason,
			})
		case reason.PoolLevel():
			// State flipped mid-run; nothing later can succeed.
			log.Warnf("Snapshot day %d rejected (%s), aborting remaining %d", op.Day, reason, len(ops)-i-1)
			report.Days = append(report.Days, models.DayResult{
				Day: op.Day, Kind: string(op.Kind), Outcome: models.OutcomeFailed, Reason: reason, Err: err.Error(),
			})
			aborted = true
		default:
			log.Errorf("Snapshot day %d failed (%s): %v", op.Day, reason, err)
			report.Days = append(report.Days, models.DayResult{
				Day: op.Day, Kind: string(op.Kind), Outcome: models.OutcomeFailed, Reason: reason, Err: err.Error(),
			})
			failed = true
		}
	}

	switch {
	case aborted:
		report.Status = models.RunBlocked
		report.Detail = "pool flag flipped mid-run"
	case failed:
		report.Status = models.RunPartial
	default:
		report.Status = models.RunSuccess
	}
}

func (s *SnapshotService) record(ctx context.Context, report *models.RunReport) {
	if s.runRepo != nil {
		run := &models.Run{
			StartedAt:  time.Now(),
			Backfill:   report.Backfill,
			CurrentDay: int64(report.CurrentDay),
			Status:     report.Status,
			Detail:     report.Detail,
		}
		days := make([]models.RunDay, 0, len(report.Days))
		for _, d := range report.Days {
			days = append(days, models.RunDay{
				Day:     int64(d.Day),
				Kind:    d.Kind,
				Outcome: d.Outcome,
				TxSig:   d.TxSig,
				Reason:  reasonDetail(d),
			})
		}
		if err := s.runRepo.SaveRun(run, days); err != nil {
			log.Error("Failed to persist run: ", err)
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyRunReport(ctx, report)
	}
}

func reasonDetail(d models.DayResult) string {
	if d.Reason == models.ReasonUnclassified && d.Err != "" {
		return fmt.Sprintf("%s: %s", d.Reason, d.Err)
	}
	return string(d.Reason)
}
