package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdropclient/internal/airdrop"
	"airdropclient/internal/models"
	solclient "airdropclient/internal/solana"
)

const testStart = int64(1700000000)

// fakeChain serves accounts from a map and derives marker/stake addresses
// deterministically. Absent keys behave like missing accounts.
type fakeChain struct {
	accounts map[solana.PublicKey][]byte
}

func newFakeChain() *fakeChain {
	return &fakeChain{accounts: make(map[solana.PublicKey][]byte)}
}

func (f *fakeChain) GetAccountBytes(_ context.Context, addr solana.PublicKey) ([]byte, error) {
	if b, ok := f.accounts[addr]; ok {
		return b, nil
	}
	return nil, solclient.ErrAccountNotFound
}

func (f *fakeChain) AccountExists(ctx context.Context, addr solana.PublicKey) (bool, error) {
	_, err := f.GetAccountBytes(ctx, addr)
	if errors.Is(err, solclient.ErrAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

func deriveFake(tag string, seeds ...solana.PublicKey) solana.PublicKey {
	h := sha256.New()
	h.Write([]byte(tag))
	for _, s := range seeds {
		h.Write(s.Bytes())
	}
	return solana.PublicKeyFromBytes(h.Sum(nil))
}

func (f *fakeChain) ClaimMarkerAddress(poolState, user solana.PublicKey) (solana.PublicKey, error) {
	return deriveFake("claimed", poolState, user), nil
}

func (f *fakeChain) UserStakeAddress(poolState, user solana.PublicKey) (solana.PublicKey, error) {
	return deriveFake("user_stake", poolState, user), nil
}

// buildPoolAccount encodes a pool account buffer with the given start time
// and the listed one-based days missing (zero sentinel).
func buildPoolAccount(startTime int64, paused, terminated bool, missing ...uint64) []byte {
	buf := make([]byte, 8+672)
	binary.LittleEndian.PutUint64(buf[136:], uint64(startTime))
	binary.LittleEndian.PutUint64(buf[144:], 5_000_000_000)
	if terminated {
		buf[161] = 1
	}
	if paused {
		buf[164] = 1
	}
	for d := 0; d < airdrop.TotalDays; d++ {
		binary.LittleEndian.PutUint64(buf[168+d*8:], 10_000)
		binary.LittleEndian.PutUint64(buf[424+d*8:], uint64(1_000_000+d))
	}
	for _, d := range missing {
		binary.LittleEndian.PutUint64(buf[424+int(d-1)*8:], 0)
	}
	return buf
}

// fakeSubmitter records call order and fails scripted days.
type fakeSubmitter struct {
	calls    []string
	todayErr error
	dayErrs  map[uint64]error
}

func (f *fakeSubmitter) SubmitSnapshot(_ context.Context, _ solana.PrivateKey, _ solana.PublicKey) (string, error) {
	f.calls = append(f.calls, "today")
	if f.todayErr != nil {
		return "", f.todayErr
	}
	return "sig-today", nil
}

func (f *fakeSubmitter) SubmitBackfillSnapshot(_ context.Context, _ solana.PrivateKey, _ solana.PublicKey, day uint64) (string, error) {
	f.calls = append(f.calls, fmt.Sprintf("backfill:%d", day))
	if err := f.dayErrs[day]; err != nil {
		return "", err
	}
	return fmt.Sprintf("sig-%d", day), nil
}

func newTestSnapshotService(t *testing.T, chain *fakeChain, sub *fakeSubmitter) (*SnapshotService, solana.PublicKey) {
	t.Helper()
	signer, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	poolAddr := deriveFake("pool_state")
	pool := NewPoolService(chain, poolAddr)
	return NewSnapshotService(pool, sub, signer, nil, nil), poolAddr
}

func TestRunOnceBackfillSubmitsOldestFirst(t *testing.T) {
	chain := newFakeChain()
	sub := &fakeSubmitter{}
	ss, poolAddr := newTestSnapshotService(t, chain, sub)
	chain.accounts[poolAddr] = buildPoolAccount(testStart, false, false, 2, 5, 7)

	now := testStart + 7*airdrop.SecondsPerDay
	report, err := ss.RunOnce(context.Background(), now, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"backfill:2", "backfill:5", "today"}, sub.calls)
	assert.Equal(t, models.RunSuccess, report.Status)
	require.Len(t, report.Days, 3)
	assert.Equal(t, models.OutcomeSubmitted, report.Days[0].Outcome)
	assert.Equal(t, "sig-2", report.Days[0].TxSig)
	assert.Equal(t, string(airdrop.OpToday), report.Days[2].Kind)
}

func TestRunOnceWithoutBackfillSubmitsOnlyToday(t *testing.T) {
	chain := newFakeChain()
	sub := &fakeSubmitter{}
	ss, poolAddr := newTestSnapshotService(t, chain, sub)
	chain.accounts[poolAddr] = buildPoolAccount(testStart, false, false, 2, 5, 7)

	now := testStart + 7*airdrop.SecondsPerDay
	report, err := ss.RunOnce(context.Background(), now, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"today"}, sub.calls)
	assert.Equal(t, models.RunSuccess, report.Status)
}

func TestRunOnceAlreadyExistsIsSuccessEquivalent(t *testing.T) {
	chain := newFakeChain()
	sub := &fakeSubmitter{dayErrs: map[uint64]error{
		5: errors.New("custom program error: 0x1782"),
	}}
	ss, poolAddr := newTestSnapshotService(t, chain, sub)
	chain.accounts[poolAddr] = buildPoolAccount(testStart, false, false, 2, 5, 7)

	now := testStart + 7*airdrop.SecondsPerDay
	report, err := ss.RunOnce(context.Background(), now, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"backfill:2", "backfill:5", "today"}, sub.calls, "continues past the race")
	assert.Equal(t, models.RunSuccess, report.Status)
	assert.Equal(t, models.OutcomeAlreadyExists, report.Days[1].Outcome)
	assert.False(t, report.Failed())
}

func TestRunOncePoolFlagFlipAbortsRemainder(t *testing.T) {
	chain := newFakeChain()
	sub := &fakeSubmitter{dayErrs: map[uint64]error{
		5: errors.New("Error Message: Pool is paused - operations temporarily disabled"),
	}}
	ss, poolAddr := newTestSnapshotService(t, chain, sub)
	chain.accounts[poolAddr] = buildPoolAccount(testStart, false, false, 2, 5, 7)

	now := testStart + 7*airdrop.SecondsPerDay
	report, err := ss.RunOnce(context.Background(), now, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"backfill:2", "backfill:5"}, sub.calls, "day 7 never attempted")
	assert.Equal(t, models.RunBlocked, report.Status)
	require.Len(t, report.Days, 3)
	assert.Equal(t, models.OutcomeFailed, report.Days[1].Outcome)
	assert.Equal(t, models.ReasonPoolPaused, report.Days[1].Reason)
	assert.Equal(t, models.OutcomeSkipped, report.Days[2].Outcome)
}

func TestRunOnceTooEarlyIsLocalFailure(t *testing.T) {
	chain := newFakeChain()
	sub := &fakeSubmitter{
		dayErrs:  map[uint64]error{2: errors.New("custom program error: 0x1780")},
		todayErr: nil,
	}
	ss, poolAddr := newTestSnapshotService(t, chain, sub)
	chain.accounts[poolAddr] = buildPoolAccount(testStart, false, false, 2, 7)

	now := testStart + 7*airdrop.SecondsPerDay
	report, err := ss.RunOnce(context.Background(), now, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"backfill:2", "today"}, sub.calls, "later days still attempted")
	assert.Equal(t, models.RunPartial, report.Status)
	assert.True(t, report.Failed())
}

func TestRunOncePausedPool(t *testing.T) {
	chain := newFakeChain()
	sub := &fakeSubmitter{}
	ss, poolAddr := newTestSnapshotService(t, chain, sub)
	chain.accounts[poolAddr] = buildPoolAccount(testStart, true, false, 2)

	now := testStart + 7*airdrop.SecondsPerDay
	report, err := ss.RunOnce(context.Background(), now, true)
	require.NoError(t, err)

	assert.Empty(t, sub.calls)
	assert.Equal(t, models.RunBlocked, report.Status)
}

func TestRunOnceBeforeWindow(t *testing.T) {
	chain := newFakeChain()
	sub := &fakeSubmitter{}
	ss, poolAddr := newTestSnapshotService(t, chain, sub)
	chain.accounts[poolAddr] = buildPoolAccount(testStart, false, false, 1)

	report, err := ss.RunOnce(context.Background(), testStart+100, true)
	require.NoError(t, err)

	assert.Empty(t, sub.calls)
	assert.Equal(t, models.RunNoop, report.Status)
	assert.Equal(t, uint64(0), report.CurrentDay)
}

func TestRunOnceAfterWindow(t *testing.T) {
	chain := newFakeChain()
	sub := &fakeSubmitter{}
	ss, poolAddr := newTestSnapshotService(t, chain, sub)
	chain.accounts[poolAddr] = buildPoolAccount(testStart, false, false, 3)

	now := testStart + 25*airdrop.SecondsPerDay
	report, err := ss.RunOnce(context.Background(), now, true)
	require.NoError(t, err)

	assert.Empty(t, sub.calls)
	assert.Equal(t, models.RunNoop, report.Status)
}

func TestRunOncePoolMissing(t *testing.T) {
	chain := newFakeChain()
	ss, _ := newTestSnapshotService(t, chain, &fakeSubmitter{})

	_, err := ss.RunOnce(context.Background(), testStart, true)
	assert.ErrorIs(t, err, ErrPoolUnavailable)
}

func TestRunOnceTruncatedAccountIsFatal(t *testing.T) {
	chain := newFakeChain()
	ss, poolAddr := newTestSnapshotService(t, chain, &fakeSubmitter{})
	chain.accounts[poolAddr] = buildPoolAccount(testStart, false, false)[:100]

	_, err := ss.RunOnce(context.Background(), testStart+2*airdrop.SecondsPerDay, true)
	assert.Error(t, err)
}
