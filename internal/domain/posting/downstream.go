package posting

import (
	"context"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
)

// Capability interfaces implemented by document types that feed downstream
// registers. The engine discovers them by type assertion, so a document only
// implements what applies to it.

// ReceivableSource produces accounts-receivable journal entries
// (debit AR / credit sales) for the document total.
type ReceivableSource interface {
	GenerateReceivableEntries(ctx context.Context) ([]entity.JournalMovement, error)
}

// COGSSource produces cost-of-goods-sold journal entries
// (debit COGS / credit inventory) at valuation rates.
type COGSSource interface {
	GenerateCOGSEntries(ctx context.Context) ([]entity.JournalMovement, error)
}

// CommissionSource produces commission accruals for the document's
// salesperson.
type CommissionSource interface {
	GenerateCommissionAccruals(ctx context.Context) ([]entity.CommissionMovement, error)
}

// JournalRecorder is the slice of the journal register service the posters
// need.
type JournalRecorder interface {
	RecordEntries(ctx context.Context, entries []entity.JournalMovement) error
	ReverseEntries(ctx context.Context, recorderID id.ID) error
}

// CommissionRecorder is the slice of the commission register service the
// posters need.
type CommissionRecorder interface {
	RecordAccruals(ctx context.Context, accruals []entity.CommissionMovement) error
	ReverseAccruals(ctx context.Context, recorderID id.ID) error
}

// DownstreamPoster is one best-effort posting step run after the primary
// transaction commits. Each poster fails independently; failures are
// reported, never rolled back into the primary posting.
type DownstreamPoster interface {
	// Name identifies the poster in posting results ("ar_journal", ...).
	Name() string

	// Applicable reports whether this poster applies to the document.
	Applicable(doc Postable) bool

	// Post records the downstream movements for the document.
	Post(ctx context.Context, doc Postable) error

	// Reverse removes the downstream movements on unposting.
	Reverse(ctx context.Context, doc Postable) error
}

// ReceivablePoster posts AR journal entries for documents that sell on
// account.
type ReceivablePoster struct {
	journal JournalRecorder
}

func NewReceivablePoster(journal JournalRecorder) *ReceivablePoster {
	return &ReceivablePoster{journal: journal}
}

func (p *ReceivablePoster) Name() string { return "ar_journal" }

func (p *ReceivablePoster) Applicable(doc Postable) bool {
	_, ok := doc.(ReceivableSource)
	return ok
}

func (p *ReceivablePoster) Post(ctx context.Context, doc Postable) error {
	entries, err := doc.(ReceivableSource).GenerateReceivableEntries(ctx)
	if err != nil {
		return err
	}
	return p.journal.RecordEntries(ctx, entries)
}

func (p *ReceivablePoster) Reverse(ctx context.Context, doc Postable) error {
	return p.journal.ReverseEntries(ctx, doc.GetID())
}

// COGSPoster posts cost-of-goods-sold journal entries.
type COGSPoster struct {
	journal JournalRecorder
}

func NewCOGSPoster(journal JournalRecorder) *COGSPoster {
	return &COGSPoster{journal: journal}
}

func (p *COGSPoster) Name() string { return "cogs_journal" }

func (p *COGSPoster) Applicable(doc Postable) bool {
	_, ok := doc.(COGSSource)
	return ok
}

func (p *COGSPoster) Post(ctx context.Context, doc Postable) error {
	entries, err := doc.(COGSSource).GenerateCOGSEntries(ctx)
	if err != nil {
		return err
	}
	return p.journal.RecordEntries(ctx, entries)
}

// Reverse deletes all journal entries of the recorder. The AR poster does the
// same; the delete is idempotent so running both is harmless.
func (p *COGSPoster) Reverse(ctx context.Context, doc Postable) error {
	return p.journal.ReverseEntries(ctx, doc.GetID())
}

// CommissionPoster accrues salesperson commission.
type CommissionPoster struct {
	commission CommissionRecorder
}

func NewCommissionPoster(commission CommissionRecorder) *CommissionPoster {
	return &CommissionPoster{commission: commission}
}

func (p *CommissionPoster) Name() string { return "commission" }

func (p *CommissionPoster) Applicable(doc Postable) bool {
	_, ok := doc.(CommissionSource)
	return ok
}

func (p *CommissionPoster) Post(ctx context.Context, doc Postable) error {
	accruals, err := doc.(CommissionSource).GenerateCommissionAccruals(ctx)
	if err != nil {
		return err
	}
	return p.commission.RecordAccruals(ctx, accruals)
}

func (p *CommissionPoster) Reverse(ctx context.Context, doc Postable) error {
	return p.commission.ReverseAccruals(ctx, doc.GetID())
}
