package repositories

import (
	"context"
	"time"

	"airdropclient/internal/config"
	"airdropclient/internal/models"

	"github.com/jmoiron/sqlx"
)

var log = config.InitLogger()

type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

// SaveRun persists a run header plus its per-day outcomes in one
// transaction. The run id is written back into the model.
func (r *RunRepository) SaveRun(run *models.Run, days []models.RunDay) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("Failed to begin transaction: ", err)
		return err
	}

	query, args, err := tx.BindNamed(
		"insert into run(started_at, backfill, current_day, status, detail) values (:started_at, :backfill, :current_day, :status, :detail) returning id",
		run,
	)
	if err != nil {
		log.Error("Failed to build run insert: ", err)
		_ = tx.Rollback()
		return err
	}

	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&run.Id); err != nil {
		log.Error("Failed to save run: ", err)
		_ = tx.Rollback()
		return err
	}

	for i := range days {
		days[i].RunId = run.Id.Int64
		if _, err := tx.NamedExecContext(
			ctx,
			"insert into run_day(run_id, day, kind, outcome, tx_sig, reason) values (:run_id, :day, :kind, :outcome, :tx_sig, :reason)",
			days[i],
		); err != nil {
			log.Error("Failed to save run day: ", err)
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction: ", err)
		_ = tx.Rollback()
		return err
	}

	return nil
}

// SaveClaimAttempt persists one claim submission outcome.
func (r *RunRepository) SaveClaimAttempt(attempt *models.ClaimAttempt) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	query, args, err := r.db.BindNamed(
		"insert into claim_attempt(address, verdict, amount_raw, tx_sig, reason, created_at) values (:address, :verdict, :amount_raw, :tx_sig, :reason, :created_at) returning id",
		attempt,
	)
	if err != nil {
		log.Error("Failed to build claim insert: ", err)
		return err
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&attempt.Id); err != nil {
		log.Error("Failed to save claim attempt: ", err)
		return err
	}

	return nil
}

// FindRecentRuns returns the latest runs, newest first.
func (r *RunRepository) FindRecentRuns(limit int) *[]models.Run {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var runs []models.Run
	if err := r.db.SelectContext(
		ctx,
		&runs,
		"select * from run order by started_at desc limit $1",
		limit,
	); err != nil {
		log.Error("Failed to get runs: ", err)
		return nil
	}

	return &runs
}

// FindRunDays returns the per-day outcomes for one run in day order.
func (r *RunRepository) FindRunDays(runId int64) *[]models.RunDay {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var days []models.RunDay
	if err := r.db.SelectContext(
		ctx,
		&days,
		"select * from run_day where run_id = $1 order by day",
		runId,
	); err != nil {
		log.Error("Failed to get run days: ", err)
		return nil
	}

	return &days
}
