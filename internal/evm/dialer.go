package evm

import (
	"context"
	"crypto/ecdsa"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/tansive/j832-go/pkg/ledger"
)

// Dialer connects to a JSON-RPC endpoint and binds the J832 contract.
type Dialer struct {
	Endpoint            string
	ReceiptPollInterval time.Duration
	Logger              zerolog.Logger
}

var _ ledger.Connector = (*Dialer)(nil)

func (d *Dialer) Connect(ctx context.Context, contract common.Address, signer *ecdsa.PrivateKey) (ledger.Ledger, error) {
	client, err := ethclient.DialContext(ctx, d.Endpoint)
	if err != nil {
		return nil, ErrConnect.Err(err)
	}
	l, err := NewLedger(ctx, client, contract, signer,
		WithReceiptPollInterval(d.ReceiptPollInterval),
		WithLogger(d.Logger),
	)
	if err != nil {
		client.Close()
		return nil, err
	}
	return l, nil
}
