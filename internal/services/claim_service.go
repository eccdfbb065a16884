package services

import (
	"bytes"
	"context"
	"time"

	"github.com/gagliardetto/solana-go"

	"airdropclient/internal/airdrop"
	"airdropclient/internal/eligibility"
	"airdropclient/internal/models"
	"airdropclient/internal/notify"
	"airdropclient/internal/repositories"
	solclient "airdropclient/internal/solana"
)

// ClaimSubmitter is the write side of the chain adapter for claims.
type ClaimSubmitter interface {
	SubmitClaim(ctx context.Context, signer solana.PrivateKey, poolState, claimMarker, userStake solana.PublicKey, amount uint64, proof [][32]byte) (string, error)
}

type ClaimService struct {
	pool      *PoolService
	chain     AccountReader
	submitter ClaimSubmitter
	dist      *eligibility.Distribution
	classify  ErrorClassifier

	runRepo  *repositories.RunRepository
	notifier *notify.Notifier
}

func NewClaimService(
	pool *PoolService,
	chain AccountReader,
	submitter ClaimSubmitter,
	dist *eligibility.Distribution,
	runRepo *repositories.RunRepository,
	notifier *notify.Notifier) *ClaimService {
	return &ClaimService{
		pool:      pool,
		chain:     chain,
		submitter: submitter,
		dist:      dist,
		classify:  solclient.ClassifyError,
		runRepo:   runRepo,
		notifier:  notifier,
	}
}

// Evaluate produces the claim verdict for a wallet without submitting
// anything. With checkOnly the pause/terminate gates are skipped, since a
// pure eligibility check performs no write.
func (s *ClaimService) Evaluate(ctx context.Context, user solana.PublicKey, checkOnly bool) (airdrop.ClaimVerdict, error) {
	rec, err := s.pool.FetchStateShort(ctx)
	if err != nil {
		return airdrop.ClaimVerdict{}, err
	}

	if !bytes.Equal(rec.MerkleRoot[:], make([]byte, 32)) && rec.MerkleRoot != s.dist.MerkleRoot {
		log.Warn("Distribution file merkle root does not match the on-chain root; claims will be rejected by the program")
	}

	entry := s.dist.Lookup(user.String())

	markerExists := false
	var stake *models.UserStake
	if entry != nil {
		markerExists, err = s.pool.MarkerExists(ctx, user)
		if err != nil {
			return airdrop.ClaimVerdict{}, err
		}
		if markerExists {
			// Informational only: show what is still staked, if anything.
			stake, err = s.pool.FetchUserStake(ctx, user)
			if err != nil {
				return airdrop.ClaimVerdict{}, err
			}
		}
	}

	return airdrop.EvaluateClaim(rec, entry, markerExists, checkOnly, stake), nil
}

// Claim evaluates and, when claimable, submits the claim transaction.
// Claims are single-shot: any rejection is terminal for the run.
func (s *ClaimService) Claim(ctx context.Context, signer solana.PrivateKey) (*models.ClaimAttempt, error) {
	user := signer.PublicKey()

	verdict, err := s.Evaluate(ctx, user, false)
	if err != nil {
		return nil, err
	}

	attempt := &models.ClaimAttempt{
		Address:   user.String(),
		Verdict:   string(verdict.Kind),
		CreatedAt: time.Now(),
	}
	if verdict.Entry != nil {
		attempt.AmountRaw = int64(verdict.Entry.RawAmount)
	}

	var submitErr error
	if verdict.Kind == airdrop.Claimable {
		marker, err := s.chain.ClaimMarkerAddress(s.pool.Address(), user)
		if err != nil {
			return nil, err
		}
		stakeAddr, err := s.chain.UserStakeAddress(s.pool.Address(), user)
		if err != nil {
			return nil, err
		}

		sig, err := s.submitter.SubmitClaim(ctx, signer, s.pool.Address(), marker, stakeAddr,
			verdict.Entry.RawAmount, verdict.Entry.Proof)
		if err != nil {
			reason := s.classify(err)
			if reason == models.ReasonAlreadyInUse {
				// Marker created between evaluation and submission.
				log.Info("Claim marker already exists, treating as claimed")
				attempt.Verdict = string(airdrop.AlreadyClaimed)
				attempt.Reason = string(reason)
			} else {
				log.Errorf("Claim rejected (%s): %v", reason, err)
				attempt.Verdict = "rejected"
				attempt.Reason = string(reason)
				submitErr = err
			}
		} else {
			log.Infof("Claim submitted: %s", sig)
			attempt.TxSig = sig
		}
	}

	s.record(ctx, attempt)
	return attempt, submitErr
}

func (s *ClaimService) record(ctx context.Context, attempt *models.ClaimAttempt) {
	if s.runRepo != nil {
		if err := s.runRepo.SaveClaimAttempt(attempt); err != nil {
			log.Error("Failed to persist claim attempt: ", err)
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyClaim(ctx, attempt.Address, attempt.Verdict, attempt.TxSig)
	}
}
