package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

const wsolMint = "So11111111111111111111111111111111111111112"

// GetAssociatedTokenAddress derives the associated token account for a
// wallet and mint.
func GetAssociatedTokenAddress(mint, owner solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token address: %w", err)
	}
	return ata, nil
}

// HasReceivingAccount reports whether the wallet already holds an account
// able to receive the given mint. Native SOL needs no token account. The
// lookup is live against the RPC node; an RPC failure is returned as an
// error because fee computation depends on the answer.
func (c *Client) HasReceivingAccount(ctx context.Context, walletAddress, mint string) (bool, error) {
	if mint == wsolMint {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mintPubkey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return false, fmt.Errorf("invalid mint: %w", err)
	}
	ownerPubkey, err := solana.PublicKeyFromBase58(walletAddress)
	if err != nil {
		return false, fmt.Errorf("invalid wallet address: %w", err)
	}

	ata, err := GetAssociatedTokenAddress(mintPubkey, ownerPubkey)
	if err != nil {
		return false, err
	}

	info, err := c.rpc.GetAccountInfo(ctx, ata)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get account info: %w", err)
	}

	return info != nil && info.Value != nil, nil
}
