package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"airdropclient/internal/airdrop"
	"airdropclient/internal/codec"
	"airdropclient/internal/config"
	"airdropclient/internal/models"
	solclient "airdropclient/internal/solana"
)

var log = config.InitLogger()

// ErrPoolUnavailable means the pool account does not exist on chain, i.e.
// the pool was never initialized for this mint. Fatal to the current run.
var ErrPoolUnavailable = errors.New("pool account not initialized")

// AccountReader is the read side of the chain adapter. Mocked in tests.
type AccountReader interface {
	GetAccountBytes(ctx context.Context, addr solana.PublicKey) ([]byte, error)
	AccountExists(ctx context.Context, addr solana.PublicKey) (bool, error)
	ClaimMarkerAddress(poolState, user solana.PublicKey) (solana.PublicKey, error)
	UserStakeAddress(poolState, user solana.PublicKey) (solana.PublicKey, error)
}

type PoolService struct {
	chain     AccountReader
	poolState solana.PublicKey
}

func NewPoolService(chain AccountReader, poolState solana.PublicKey) *PoolService {
	return &PoolService{
		chain:     chain,
		poolState: poolState,
	}
}

func (s *PoolService) Address() solana.PublicKey {
	return s.poolState
}

// FetchState fetches and fully decodes the pool account. Each run calls
// this fresh; no decoded state survives between runs.
func (s *PoolService) FetchState(ctx context.Context) (*models.PoolState, error) {
	buf, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := codec.DecodePoolState(buf)
	if err != nil {
		return nil, fmt.Errorf("decode pool state: %w", err)
	}
	return rec, nil
}

// FetchStateShort decodes only the head of the pool account, enough for
// pause/terminate and claim checks.
func (s *PoolService) FetchStateShort(ctx context.Context) (*models.PoolState, error) {
	buf, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := codec.DecodePoolStateShort(buf)
	if err != nil {
		return nil, fmt.Errorf("decode pool state: %w", err)
	}
	return rec, nil
}

func (s *PoolService) fetch(ctx context.Context) ([]byte, error) {
	buf, err := s.chain.GetAccountBytes(ctx, s.poolState)
	if errors.Is(err, solclient.ErrAccountNotFound) {
		return nil, ErrPoolUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("fetch pool state: %w", err)
	}
	return buf, nil
}

// MarkerExists reports whether the wallet's permanent claim marker exists.
func (s *PoolService) MarkerExists(ctx context.Context, user solana.PublicKey) (bool, error) {
	marker, err := s.chain.ClaimMarkerAddress(s.poolState, user)
	if err != nil {
		return false, err
	}
	return s.chain.AccountExists(ctx, marker)
}

// FetchUserStake returns the wallet's decoded stake account, or nil when
// the account does not exist (never claimed, or already unstaked).
func (s *PoolService) FetchUserStake(ctx context.Context, user solana.PublicKey) (*models.UserStake, error) {
	addr, err := s.chain.UserStakeAddress(s.poolState, user)
	if err != nil {
		return nil, err
	}
	buf, err := s.chain.GetAccountBytes(ctx, addr)
	if errors.Is(err, solclient.ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	stake, err := codec.DecodeUserStake(buf)
	if err != nil {
		return nil, fmt.Errorf("decode user stake: %w", err)
	}
	return stake, nil
}

// RewardsEstimate fetches the full pool state and the wallet's stake, then
// estimates rewards two ways: accrued from the snapshots already recorded,
// and projected for the days still to come. After the exit window both are
// zero, matching what an unstake would actually pay. The stake result is
// nil when the wallet has no open stake.
func (s *PoolService) RewardsEstimate(ctx context.Context, user solana.PublicKey, now int64) (stake *models.UserStake, accrued, projected uint64, err error) {
	rec, err := s.FetchState(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	stake, err = s.FetchUserStake(ctx, user)
	if err != nil {
		return nil, 0, 0, err
	}
	if stake == nil {
		return nil, 0, 0, nil
	}
	accrued = airdrop.AccruedRewards(rec, stake, now)
	if !airdrop.Expired(rec.StartTime, now) {
		projected = airdrop.ProjectedRemainingRewards(rec, stake)
	}
	return stake, accrued, projected, nil
}
