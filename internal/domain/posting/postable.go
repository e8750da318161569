// Package posting provides the document posting engine: it turns documents
// into register movements inside a single database transaction, then runs
// best-effort downstream postings (accounting journal, commission) whose
// outcomes are reported back to the caller.
package posting

import (
	"context"
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/core/status"
)

// Postable is implemented by documents that can be posted to registers.
// entity.Document provides the accessor and flag methods; document types add
// GetDocumentType, the workflow wiring, and GenerateMovements.
type Postable interface {
	GetID() id.ID
	GetDate() time.Time
	GetStatus() status.Status
	GetPostedVersion() int
	IsPosted() bool

	// CanPost validates document-specific posting preconditions.
	CanPost(ctx context.Context) error

	// MarkPosted / MarkUnposted flip the posted flag and version.
	MarkPosted()
	MarkUnposted()

	// ChangeStatus applies a workflow transition validated by the machine.
	ChangeStatus(m *status.Machine, to status.Status) error

	// GetDocumentType returns the document type name ("SalesInvoice", ...).
	GetDocumentType() string

	// Workflow returns the document type's status machine.
	Workflow() *status.Machine

	// PostTarget is the workflow state a successful posting moves the
	// document into. UnpostTarget is the state unposting steps back to.
	PostTarget() status.Status
	UnpostTarget() status.Status

	// GenerateMovements produces the register movements for the next
	// posted version. Lines must already be normalized to base units.
	GenerateMovements(ctx context.Context) (*MovementSet, error)
}

// SaveFunc persists the document (status, posted flags, version) within the
// posting transaction.
type SaveFunc func(ctx context.Context) error
