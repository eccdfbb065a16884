// Package eligibility loads the precomputed merkle distribution file that
// maps wallet addresses to claim amounts and inclusion proofs. The file is
// produced offline by the tree builder; this client only looks entries up
// and forwards proofs, it never recomputes the tree.
package eligibility

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"airdropclient/internal/airdrop"
)

// Distribution is the parsed eligibility set plus its metadata.
type Distribution struct {
	MerkleRoot   [32]byte
	TotalEntries int
	TotalAmount  string

	entries map[string]*airdrop.ClaimEntry
}

type distributionFile struct {
	MerkleRoot   string               `json:"merkleRoot"`
	TotalEntries int                  `json:"totalEntries"`
	TotalAmount  string               `json:"totalAmount"`
	Claims       map[string]claimJSON `json:"claims"`
}

type claimJSON struct {
	Amount    string   `json:"amount"`
	RawAmount string   `json:"rawAmount"`
	Proof     []string `json:"proof"`
}

// Load reads and parses a distribution file.
func Load(path string) (*Distribution, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read distribution file: %w", err)
	}

	var doc distributionFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse distribution file: %w", err)
	}

	dist := &Distribution{
		TotalEntries: doc.TotalEntries,
		TotalAmount:  doc.TotalAmount,
		entries:      make(map[string]*airdrop.ClaimEntry, len(doc.Claims)),
	}
	if err := decodeHash(doc.MerkleRoot, &dist.MerkleRoot); err != nil {
		return nil, fmt.Errorf("merkle root: %w", err)
	}

	for addr, c := range doc.Claims {
		rawAmount, err := strconv.ParseUint(c.RawAmount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("claim %s: raw amount %q: %w", addr, c.RawAmount, err)
		}
		proof := make([][32]byte, len(c.Proof))
		for i, h := range c.Proof {
			if err := decodeHash(h, &proof[i]); err != nil {
				return nil, fmt.Errorf("claim %s: proof node %d: %w", addr, i, err)
			}
		}
		dist.entries[addr] = &airdrop.ClaimEntry{
			HumanAmount: c.Amount,
			RawAmount:   rawAmount,
			Proof:       proof,
		}
	}

	return dist, nil
}

// Lookup returns the claim entry for an address, or nil when the address is
// not part of the distribution. Membership is a direct key lookup.
func (d *Distribution) Lookup(address string) *airdrop.ClaimEntry {
	return d.entries[address]
}

// Len returns the number of loaded entries (may differ from the metadata
// count if the file is inconsistent; callers decide whether to care).
func (d *Distribution) Len() int {
	return len(d.entries)
}

func decodeHash(s string, dst *[32]byte) error {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != 32 {
		return fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(dst[:], b)
	return nil
}
