// Package solana is the transport boundary: account fetches, PDA
// derivation and transaction submission against the airdrop program. All
// decision logic lives above it and sees only typed records and structured
// reason codes.
package solana

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"airdropclient/internal/config"
)

var log = config.InitLogger()

// ErrAccountNotFound is returned when the queried account does not exist
// on chain. For the pool account the caller treats this as "pool not
// initialized"; for marker accounts it simply means "not claimed yet".
var ErrAccountNotFound = errors.New("account not found")

// PDA seed constants, identical to the program's.
var (
	seedPoolState = []byte("pool_state")
	seedPoolToken = []byte("pool_token")
	seedUserStake = []byte("user_stake")
	seedClaimed   = []byte("claimed")
)

type Client struct {
	rpc       *rpc.Client
	programID solana.PublicKey
}

func NewClient(rpcURL, programID string) (*Client, error) {
	prog, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return nil, fmt.Errorf("program id: %w", err)
	}
	return &Client{
		rpc:       rpc.New(rpcURL),
		programID: prog,
	}, nil
}

func (c *Client) ProgramID() solana.PublicKey {
	return c.programID
}

// GetAccountBytes fetches the raw data of an account, or ErrAccountNotFound
// when the account is absent.
func (c *Client) GetAccountBytes(ctx context.Context, addr solana.PublicKey) ([]byte, error) {
	res, err := c.rpc.GetAccountInfo(ctx, addr)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account %s: %w", addr, err)
	}
	if res == nil || res.Value == nil {
		return nil, ErrAccountNotFound
	}
	return res.Value.Data.GetBinary(), nil
}

// AccountExists reports whether an account exists on chain. Used for claim
// markers, whose mere existence is the signal.
func (c *Client) AccountExists(ctx context.Context, addr solana.PublicKey) (bool, error) {
	_, err := c.GetAccountBytes(ctx, addr)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PoolStateAddress derives the pool PDA for a token mint.
func (c *Client) PoolStateAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{seedPoolState, mint.Bytes()}, c.programID)
	return addr, err
}

// PoolTokenAddress derives the pool's token vault PDA.
func (c *Client) PoolTokenAddress(poolState solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{seedPoolToken, poolState.Bytes()}, c.programID)
	return addr, err
}

// ClaimMarkerAddress derives the permanent claim-marker PDA for a wallet.
func (c *Client) ClaimMarkerAddress(poolState, user solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{seedClaimed, poolState.Bytes(), user.Bytes()}, c.programID)
	return addr, err
}

// UserStakeAddress derives the stake-account PDA for a wallet.
func (c *Client) UserStakeAddress(poolState, user solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{seedUserStake, poolState.Bytes(), user.Bytes()}, c.programID)
	return addr, err
}

// SubmitSnapshot submits the plain snapshot instruction for the current
// day.
func (c *Client) SubmitSnapshot(ctx context.Context, signer solana.PrivateKey, poolState solana.PublicKey) (string, error) {
	data := anchorDiscriminator("snapshot")
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(signer.PublicKey(), false, true),
		solana.NewAccountMeta(poolState, true, false),
	}
	return c.submit(ctx, signer, solana.NewInstruction(c.programID, accounts, data))
}

// SubmitBackfillSnapshot submits the explicit-day backfill instruction.
func (c *Client) SubmitBackfillSnapshot(ctx context.Context, signer solana.PrivateKey, poolState solana.PublicKey, day uint64) (string, error) {
	args := struct {
		Day uint64
	}{Day: day}
	data, err := anchorInstructionData("backfill_snapshot", args)
	if err != nil {
		return "", err
	}
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(signer.PublicKey(), false, true),
		solana.NewAccountMeta(poolState, true, false),
	}
	return c.submit(ctx, signer, solana.NewInstruction(c.programID, accounts, data))
}

// SubmitClaim submits claim_airdrop with the merkle path. The program
// creates the claim marker and stake account; a collision there surfaces
// as "already in use".
func (c *Client) SubmitClaim(ctx context.Context, signer solana.PrivateKey, poolState, claimMarker, userStake solana.PublicKey, amount uint64, proof [][32]byte) (string, error) {
	args := struct {
		Amount uint64
		Proof  [][32]byte
	}{Amount: amount, Proof: proof}
	data, err := anchorInstructionData("claim_airdrop", args)
	if err != nil {
		return "", err
	}
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(signer.PublicKey(), true, true),
		solana.NewAccountMeta(poolState, true, false),
		solana.NewAccountMeta(claimMarker, true, false),
		solana.NewAccountMeta(userStake, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return c.submit(ctx, signer, solana.NewInstruction(c.programID, accounts, data))
}

func (c *Client) submit(ctx context.Context, signer solana.PrivateKey, instr solana.Instruction) (string, error) {
	blockhash, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("get blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instr},
		blockhash.Value.Blockhash,
		solana.TransactionPayer(signer.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(signer.PublicKey()) {
			return &signer
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", err
	}

	log.Debug("Transaction submitted: ", sig.String())
	return sig.String(), nil
}

// anchorDiscriminator is the 8-byte anchor method tag.
func anchorDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte("global:" + name))
	out := make([]byte, 8, 8+64)
	copy(out, h[:8])
	return out
}

// anchorInstructionData is discriminator + Borsh-encoded args.
func anchorInstructionData(name string, args interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode %s args: %w", name, err)
	}
	return append(anchorDiscriminator(name), buf.Bytes()...), nil
}
