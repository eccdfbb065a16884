package codec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdropclient/internal/airdrop"
)

const (
	shortLen     = 165
	fullLen      = 584
	userStakeLen = 57
)

// buildPoolBuf lays out a full pool account the way the program stores it.
func buildPoolBuf(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, 8+672)

	for i := 0; i < 32; i++ {
		buf[8+i] = 0xAA    // admin
		buf[40+i] = 0xBB   // token mint
		buf[72+i] = 0xCC   // pool token account
		buf[104+i] = 0xDD  // merkle root
	}
	binary.LittleEndian.PutUint64(buf[136:], uint64(1700000000)) // start_time
	binary.LittleEndian.PutUint64(buf[144:], 5_000_000_000)      // total_staked
	binary.LittleEndian.PutUint64(buf[152:], 2_000_000_000)      // total_airdrop_claimed
	buf[160] = 3 // snapshot_count
	buf[161] = 0 // terminated
	buf[162] = 254
	buf[163] = 253
	buf[164] = 0 // paused

	for d := 0; d < airdrop.TotalDays; d++ {
		binary.LittleEndian.PutUint64(buf[168+d*8:], uint64(1000+d)) // daily_rewards
	}
	for d := 0; d < 3; d++ {
		binary.LittleEndian.PutUint64(buf[424+d*8:], uint64(5000+d)) // daily_snapshots
	}
	return buf
}

func TestDecodePoolState(t *testing.T) {
	rec, err := DecodePoolState(buildPoolBuf(t))
	require.NoError(t, err)

	assert.Equal(t, byte(0xAA), rec.Admin[0])
	assert.Equal(t, byte(0xBB), rec.TokenMint[31])
	assert.Equal(t, byte(0xCC), rec.PoolTokenAccount[15])
	assert.Equal(t, byte(0xDD), rec.MerkleRoot[0])
	assert.Equal(t, int64(1700000000), rec.StartTime)
	assert.Equal(t, uint64(5_000_000_000), rec.TotalStaked)
	assert.Equal(t, uint64(2_000_000_000), rec.TotalAirdropClaimed)
	assert.Equal(t, uint8(3), rec.SnapshotCount)
	assert.False(t, rec.Terminated)
	assert.False(t, rec.Paused)

	require.Len(t, rec.DailyRewards, airdrop.TotalDays)
	require.Len(t, rec.DailySnapshots, airdrop.TotalDays)
	assert.Equal(t, uint64(1000), rec.DailyRewards[0])
	assert.Equal(t, uint64(1019), rec.DailyRewards[19])
	assert.Equal(t, uint64(5000), rec.DailySnapshots[0])
	assert.Equal(t, uint64(5002), rec.DailySnapshots[2])
	assert.Equal(t, uint64(0), rec.DailySnapshots[3], "unwritten days stay at the zero sentinel")
}

func TestDecodePoolStateFlags(t *testing.T) {
	buf := buildPoolBuf(t)
	buf[161] = 1
	buf[164] = 1

	rec, err := DecodePoolState(buf)
	require.NoError(t, err)
	assert.True(t, rec.Terminated)
	assert.True(t, rec.Paused)
	assert.False(t, rec.Writable())
}

func TestDecodePoolStateMinimumLengths(t *testing.T) {
	buf := buildPoolBuf(t)

	_, err := DecodePoolState(buf[:fullLen])
	assert.NoError(t, err, "full layout needs exactly %d bytes", fullLen)

	_, err = DecodePoolStateShort(buf[:shortLen])
	assert.NoError(t, err, "short layout needs exactly %d bytes", shortLen)
}

func TestDecodePoolStateTruncated(t *testing.T) {
	buf := buildPoolBuf(t)

	// One byte short of any field boundary must fail before reading.
	for _, n := range []int{0, 7, 8, 39, 135, 143, 160, 164, shortLen, 167, 423, fullLen - 1} {
		_, err := DecodePoolState(buf[:n])
		assert.ErrorIs(t, err, ErrTruncatedRecord, "len=%d", n)
	}

	for _, n := range []int{0, 8, 136, 144, 164} {
		_, err := DecodePoolStateShort(buf[:n])
		assert.ErrorIs(t, err, ErrTruncatedRecord, "len=%d", n)
	}
}

func TestDecodePoolStateShortStopsAtFlags(t *testing.T) {
	rec, err := DecodePoolStateShort(buildPoolBuf(t)[:shortLen])
	require.NoError(t, err)
	assert.Equal(t, uint8(3), rec.SnapshotCount)
	assert.Nil(t, rec.DailyRewards)
	assert.Nil(t, rec.DailySnapshots)
}

func TestDecodeUserStake(t *testing.T) {
	buf := make([]byte, userStakeLen)
	for i := 0; i < 32; i++ {
		buf[8+i] = 0x11
	}
	binary.LittleEndian.PutUint64(buf[40:], 750_000_000)
	binary.LittleEndian.PutUint64(buf[48:], 4)
	buf[56] = 255

	stake, err := DecodeUserStake(buf)
	require.NoError(t, err)
	assert.Equal(t, byte(0x11), stake.Owner[0])
	assert.Equal(t, uint64(750_000_000), stake.StakedAmount)
	assert.Equal(t, uint64(4), stake.ClaimDay)

	_, err = DecodeUserStake(buf[:userStakeLen-1])
	assert.ErrorIs(t, err, ErrTruncatedRecord)
}
