// Package j832 is the client for the J832 audit and governance ledger. A
// Client canonicalizes identifiers, checks inputs locally, dispatches each
// operation to the ledger and decodes the result. It keeps no state about
// resources or proposals: every read reflects the ledger at call time.
package j832

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/tansive/j832-go/internal/canonical"
	"github.com/tansive/j832-go/internal/common/logtrace"
	"github.com/tansive/j832-go/internal/common/metrics"
	"github.com/tansive/j832-go/internal/evm"
	"github.com/tansive/j832-go/internal/journal"
	"github.com/tansive/j832-go/pkg/ledger"
	"github.com/tansive/j832-go/pkg/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/tansive/j832-go"

// Canonicalize maps any identifier onto the ledger's 32-byte key format, the
// same way the client does before every call.
func Canonicalize(s string) types.Hash {
	return canonical.Canonicalize(s)
}

type Option func(*clientOptions)

type clientOptions struct {
	connector      ledger.Connector
	logger         *zerolog.Logger
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	journalPath    *string
}

// WithConnector replaces the default EVM connection, typically with an
// in-memory ledger in tests.
func WithConnector(c ledger.Connector) Option {
	return func(o *clientOptions) {
		o.connector = c
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = &logger
	}
}

// WithMetrics registers the client's collectors with reg. Without it no
// metrics are recorded.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *clientOptions) {
		o.registerer = reg
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) {
		o.tracerProvider = tp
	}
}

// WithJournal overrides Config.JournalPath. An empty path disables the
// journal.
func WithJournal(path string) Option {
	return func(o *clientOptions) {
		o.journalPath = &path
	}
}

type Client struct {
	ledger   ledger.Ledger
	address  common.Address
	canWrite bool
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	journal  *journal.Writer
}

// New validates cfg and connects to the ledger. Configuration problems are
// reported before any network activity and no client is returned on error.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var key *ecdsa.PrivateKey
	if !cfg.readOnly() {
		var err error
		key, err = crypto.HexToECDSA(strings.TrimPrefix(cfg.SigningKey, "0x"))
		if err != nil {
			return nil, ErrInvalidSigningKey
		}
	}

	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		canWrite: key != nil,
		metrics:  metrics.New(o.registerer),
	}
	if key != nil {
		c.address = crypto.PubkeyToAddress(key.PublicKey)
	}
	if o.logger != nil {
		c.logger = o.logger.With().Str("component", "j832").Logger()
	} else {
		c.logger = logtrace.Component("j832")
	}
	if o.tracerProvider != nil {
		c.tracer = o.tracerProvider.Tracer(instrumentationName)
	} else {
		c.tracer = otel.Tracer(instrumentationName)
	}

	journalPath := cfg.JournalPath
	if o.journalPath != nil {
		journalPath = *o.journalPath
	}
	if journalPath != "" {
		if key == nil {
			c.logger.Warn().Str("path", journalPath).Msg("journal ignored for read-only client")
		} else {
			w, err := journal.Open(journalPath, key)
			if err != nil {
				return nil, ErrConfiguration.MsgErr("unable to open journal", err)
			}
			c.journal = w
			c.logger.Debug().Str("path", w.Path()).Msg("journal opened")
		}
	}

	connector := o.connector
	if connector == nil {
		connector = &evm.Dialer{
			Endpoint:            cfg.Endpoint,
			ReceiptPollInterval: cfg.ReceiptPollInterval,
			Logger:              c.logger,
		}
	}
	l, err := connector.Connect(ctx, common.HexToAddress(cfg.ContractAddress), key)
	if err != nil {
		if c.journal != nil {
			c.journal.Close()
		}
		return nil, ErrLedger.MsgErr(err.Error(), err)
	}
	c.ledger = l

	c.logger.Debug().
		Str("contract", cfg.ContractAddress).
		Bool("can_write", c.canWrite).
		Msg("client connected")
	return c, nil
}

// CanWrite reports whether the client was constructed with a signing key.
func (c *Client) CanWrite() bool {
	return c.canWrite
}

// Address is the signer's address, or the zero address for a read-only client.
func (c *Client) Address() common.Address {
	return c.address
}

func (c *Client) Close() error {
	c.ledger.Close()
	if c.journal != nil {
		return c.journal.Close()
	}
	return nil
}

// checkWrite is the write gate. It runs before validation and never touches
// the ledger.
func (c *Client) checkWrite(op string) error {
	if c.canWrite {
		return nil
	}
	c.metrics.IncrementWriteRejection(op)
	return c.reject(op, ErrReadOnlyClient.Prefix(op))
}

func (c *Client) reject(op string, err error) error {
	c.metrics.IncrementOutcome(op, metrics.OutcomeRejected)
	c.logger.Warn().Str("operation", op).Err(err).Msg("operation rejected")
	return err
}

// dispatch runs one ledger call with its span, metrics and log lines, then
// decodes the result. Ledger failures are wrapped in ErrLedger. Decode
// failures, including responses the ledger binding could not unpack, are
// returned as they are.
func dispatch[R, T any](ctx context.Context, c *Client, op string, call func(context.Context) (R, error), decodeFn func(R) (T, error)) (T, error) {
	var zero T
	ctx, opID := logtrace.WithOperationID(ctx)
	ctx, span := c.tracer.Start(ctx, "j832."+op,
		trace.WithAttributes(
			attribute.String("j832.operation", op),
			attribute.String("j832.operation_id", opID),
		))
	defer span.End()

	logger := c.logger.With().Str("operation", op).Str("op_id", opID).Logger()
	logger.Debug().Msg("dispatching")

	start := time.Now()
	raw, err := call(ctx)
	c.metrics.ObserveLatency(op, time.Since(start))
	if err != nil {
		if !errors.Is(err, ErrDecode) {
			err = ErrLedger.MsgErr(err.Error(), err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.IncrementOutcome(op, metrics.OutcomeFailed)
		logger.Warn().Err(err).Msg("ledger call failed")
		return zero, err
	}

	v, err := decodeFn(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.IncrementOutcome(op, metrics.OutcomeFailed)
		logger.Warn().Err(err).Msg("unable to decode ledger response")
		return zero, err
	}

	if r, ok := any(v).(*types.Receipt); ok && !r.Successful() {
		span.SetStatus(codes.Error, "transaction reverted")
		c.metrics.IncrementOutcome(op, metrics.OutcomeReverted)
		logger.Warn().Str("tx", r.TxHash).Uint64("status", r.Status).Msg("transaction mined with failed status")
		return v, nil
	}

	c.metrics.IncrementOutcome(op, metrics.OutcomeSuccess)
	logger.Debug().Dur("elapsed", time.Since(start)).Msg("done")
	return v, nil
}

// submit dispatches a mutating call and records it in the journal once the
// ledger has returned a receipt.
func (c *Client) submit(ctx context.Context, op string, args map[string]any, call func(context.Context) (*types.Receipt, error)) (*types.Receipt, error) {
	receipt, err := dispatch(ctx, c, op, call, passthrough[*types.Receipt])
	if err != nil {
		return nil, err
	}
	c.record(op, args, receipt)
	return receipt, nil
}

// record appends to the journal. The ledger has already accepted the call, so
// a journal failure is logged and does not fail the operation.
func (c *Client) record(op string, args map[string]any, receipt *types.Receipt) {
	if c.journal == nil {
		return
	}
	payload := map[string]any{
		"operation": op,
		"time":      time.Now().UTC().Format(time.RFC3339Nano),
		"signer":    c.address.Hex(),
		"txHash":    receipt.TxHash,
		"status":    receipt.Successful(),
	}
	for k, v := range args {
		payload[k] = v
	}
	if _, err := c.journal.Append(payload); err != nil {
		c.logger.Error().Err(err).Str("operation", op).Str("tx", receipt.TxHash).Msg("unable to journal submission")
	}
}

func passthrough[T any](v T) (T, error) {
	return v, nil
}
