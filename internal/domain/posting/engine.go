package posting

import (
	"context"
	"fmt"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/security"
	"tradecore/internal/core/status"
	"tradecore/internal/core/tenant"
	"tradecore/internal/core/tx"
	"tradecore/pkg/logger"
)

// StockLedger is the slice of the stock register service the engine drives.
type StockLedger interface {
	ApplyMovements(ctx context.Context, movements []entity.StockMovement) error
	ReverseMovements(ctx context.Context, recorderID id.ID) error
}

// DownstreamResult reports the outcome of one downstream poster.
type DownstreamResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Result describes a completed posting or unposting.
type Result struct {
	DocumentID    id.ID              `json:"documentId"`
	DocumentType  string             `json:"documentType"`
	Status        status.Status      `json:"status"`
	PostedVersion int                `json:"postedVersion"`
	Movements     int                `json:"movements"`
	Downstream    []DownstreamResult `json:"downstream,omitempty"`
}

// Engine posts documents to registers. The primary writes (document state,
// stock movements, balance updates) happen in one transaction; downstream
// posters run after commit, each in its own transaction, each independently
// fallible.
type Engine struct {
	txManager  tx.Manager // Optional. If nil, obtained from context (DB-per-tenant).
	stock      StockLedger
	policy     security.PostingPolicy
	downstream []DownstreamPoster
}

// EngineConfig configures the posting engine.
type EngineConfig struct {
	TxManager tx.Manager // Optional for Database-per-Tenant
	Stock     StockLedger
	Policy    security.PostingPolicy
}

// NewEngine creates a posting engine.
func NewEngine(cfg EngineConfig) *Engine {
	policy := cfg.Policy
	if policy == nil {
		policy = security.OpenPolicy{}
	}
	return &Engine{
		txManager: cfg.TxManager,
		stock:     cfg.Stock,
		policy:    policy,
	}
}

// RegisterDownstream adds a downstream poster. Posters run in registration
// order.
func (e *Engine) RegisterDownstream(p DownstreamPoster) {
	e.downstream = append(e.downstream, p)
}

func (e *Engine) getTxManager(ctx context.Context) (tx.Manager, error) {
	if e.txManager != nil {
		return e.txManager, nil
	}
	return tenant.GetTxManager(ctx)
}

// Post records the document's movements to registers. On success the document
// is in its post-target workflow state with the posted flag set; the returned
// Result carries the per-poster downstream outcomes.
func (e *Engine) Post(ctx context.Context, doc Postable, save SaveFunc) (*Result, error) {
	if err := e.policy.CanPost(ctx, doc.GetDate()); err != nil {
		return nil, err
	}

	if err := doc.CanPost(ctx); err != nil {
		return nil, err
	}

	// Fail the status guard before touching any state.
	machine := doc.Workflow()
	target := doc.PostTarget()
	if doc.GetStatus() != target && !machine.CanTransition(doc.GetStatus(), target) {
		return nil, machine.Transition(doc.GetStatus(), target)
	}

	txm, err := e.getTxManager(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	wasPosted := doc.IsPosted()

	var set *MovementSet
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		// Re-posting: remove the previous version's movements and restore
		// balances before applying the new ones.
		if doc.IsPosted() {
			if err := e.stock.ReverseMovements(ctx, doc.GetID()); err != nil {
				return fmt.Errorf("reverse prior movements: %w", err)
			}
		}

		set, err = doc.GenerateMovements(ctx)
		if err != nil {
			return fmt.Errorf("generate movements: %w", err)
		}

		if doc.GetStatus() != target {
			if err := doc.ChangeStatus(machine, target); err != nil {
				return err
			}
		}
		doc.MarkPosted()

		if err := save(ctx); err != nil {
			return fmt.Errorf("save document: %w", err)
		}

		return e.stock.ApplyMovements(ctx, set.Stock)
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		DocumentID:    doc.GetID(),
		DocumentType:  doc.GetDocumentType(),
		Status:        doc.GetStatus(),
		PostedVersion: doc.GetPostedVersion(),
		Movements:     len(set.Stock),
	}

	e.runDownstream(ctx, txm, doc, result, downstreamPost, wasPosted)

	logger.Info(ctx, "document posted",
		"document_type", doc.GetDocumentType(),
		"document_id", doc.GetID(),
		"version", doc.GetPostedVersion(),
		"movements", result.Movements)

	return result, nil
}

// Unpost reverses the document's movements and steps the workflow state back.
func (e *Engine) Unpost(ctx context.Context, doc Postable, save SaveFunc) (*Result, error) {
	if err := e.policy.CanUnpost(ctx, doc.GetDate()); err != nil {
		return nil, err
	}

	if !doc.IsPosted() {
		return nil, apperror.NewBusinessRule(
			apperror.CodeDocumentNotPosted,
			"Document is not posted",
		).WithDetail("document_id", doc.GetID().String())
	}

	machine := doc.Workflow()
	target := doc.UnpostTarget()
	if doc.GetStatus() != target && !machine.CanTransition(doc.GetStatus(), target) {
		return nil, machine.Transition(doc.GetStatus(), target)
	}

	txm, err := e.getTxManager(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.stock.ReverseMovements(ctx, doc.GetID()); err != nil {
			return fmt.Errorf("reverse movements: %w", err)
		}

		if doc.GetStatus() != target {
			if err := doc.ChangeStatus(machine, target); err != nil {
				return err
			}
		}
		doc.MarkUnposted()

		if err := save(ctx); err != nil {
			return fmt.Errorf("save document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		DocumentID:    doc.GetID(),
		DocumentType:  doc.GetDocumentType(),
		Status:        doc.GetStatus(),
		PostedVersion: doc.GetPostedVersion(),
	}

	e.runDownstream(ctx, txm, doc, result, downstreamReverse, false)

	logger.Info(ctx, "document unposted",
		"document_type", doc.GetDocumentType(),
		"document_id", doc.GetID())

	return result, nil
}

type downstreamDirection int

const (
	downstreamPost downstreamDirection = iota
	downstreamReverse
)

// runDownstream executes the applicable posters, each in its own transaction.
// Failures are collected into the result, never propagated: the primary
// posting has already committed.
//
// On re-post the prior downstream entries are reversed across ALL posters
// before any poster writes. Posters can share a register (AR and COGS both
// write journal entries for the same recorder), so a per-poster
// reverse-then-post would delete a sibling's fresh rows; reversing first keyed
// by recorder clears each register exactly once. A poster whose reversal
// failed is not re-posted: its stale entries are still in place and posting on
// top of them would stack.
func (e *Engine) runDownstream(ctx context.Context, txm tx.Manager, doc Postable, result *Result, dir downstreamDirection, repost bool) {
	reverseFailed := make(map[string]error)
	if dir == downstreamPost && repost {
		for _, p := range e.downstream {
			if !p.Applicable(doc) {
				continue
			}
			err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
				return p.Reverse(ctx, doc)
			})
			if err != nil {
				reverseFailed[p.Name()] = err
			}
		}
	}

	for _, p := range e.downstream {
		if !p.Applicable(doc) {
			continue
		}

		var err error
		if rerr, ok := reverseFailed[p.Name()]; ok {
			err = fmt.Errorf("reverse prior entries: %w", rerr)
		} else {
			err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
				if dir == downstreamReverse {
					return p.Reverse(ctx, doc)
				}
				return p.Post(ctx, doc)
			})
		}

		dr := DownstreamResult{Name: p.Name(), Success: err == nil}
		if err != nil {
			dr.Error = err.Error()
			logger.Warn(ctx, "downstream posting failed",
				"poster", p.Name(),
				"document_id", doc.GetID(),
				"error", err)
		}
		result.Downstream = append(result.Downstream, dr)
	}
}
