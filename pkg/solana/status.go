package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Settlement depth reported by the ledger for a confirmed signature.
const (
	DepthProcessed = "processed"
	DepthConfirmed = "confirmed"
	DepthFinalized = "finalized"
)

// SignatureStatus is the ledger's view of one transaction signature.
// Found=false means the ledger has no record of the signature yet, which is
// a normal state for an in-flight or dropped transaction.
type SignatureStatus struct {
	Found  bool
	Failed bool
	Depth  string
}

// Client wraps the Solana RPC endpoints the settlement core needs: signature
// status lookups and failure-reason decoding.
type Client struct {
	rpc *rpc.Client
}

// NewClient creates a ledger client for the given RPC endpoint.
func NewClient(endpoint string) *Client {
	return &Client{rpc: rpc.New(endpoint)}
}

// GetConfirmationStatus checks the ledger for a transaction signature.
func (c *Client) GetConfirmationStatus(ctx context.Context, hash string) (*SignatureStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sig, err := solana.SignatureFromBase58(hash)
	if err != nil {
		return nil, fmt.Errorf("invalid signature format: %w", err)
	}

	res, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, fmt.Errorf("failed to get signature status: %w", err)
	}

	if res == nil || len(res.Value) == 0 || res.Value[0] == nil {
		return &SignatureStatus{Found: false}, nil
	}

	status := res.Value[0]
	out := &SignatureStatus{Found: true}

	if status.Err != nil {
		out.Failed = true
	}

	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusFinalized:
		out.Depth = DepthFinalized
	case rpc.ConfirmationStatusConfirmed:
		out.Depth = DepthConfirmed
	case rpc.ConfirmationStatusProcessed:
		out.Depth = DepthProcessed
	}

	return out, nil
}

// DecodeFailureReason fetches the failed transaction and renders its error
// detail. Best effort: an empty string means no detail could be decoded.
func (c *Client) DecodeFailureReason(ctx context.Context, hash string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sig, err := solana.SignatureFromBase58(hash)
	if err != nil {
		return "", fmt.Errorf("invalid signature format: %w", err)
	}

	maxVersion := uint64(0)
	tx, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get transaction: %w", err)
	}

	if tx == nil || tx.Meta == nil || tx.Meta.Err == nil {
		return "", nil
	}

	errJSON, err := json.Marshal(tx.Meta.Err)
	if err != nil {
		return "", fmt.Errorf("failed to render transaction error: %w", err)
	}

	return string(errJSON), nil
}
