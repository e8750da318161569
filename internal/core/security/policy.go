package security

import (
	"context"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"

	"tradecore/internal/core/apperror"
	appctx "tradecore/internal/core/context"
)

// PostingPolicy defines rules for document posting.
// Different tenants may have different policies (strict vs flexible).
type PostingPolicy interface {
	// CanPost checks if document can be posted with given date
	CanPost(ctx context.Context, docDate time.Time) error

	// CanModify checks if posted document can be modified
	CanModify(ctx context.Context, docDate time.Time) error

	// CanUnpost checks if document can be unposted
	CanUnpost(ctx context.Context, docDate time.Time) error

	// GetClosedPeriod returns the date until which period is closed
	GetClosedPeriod(ctx context.Context) time.Time
}

// StrictPolicy forbids any changes to closed period.
// Used for regulatory compliance.
type StrictPolicy struct {
	closedUntil time.Time
}

// NewStrictPolicy creates policy that forbids changes before closedUntil.
func NewStrictPolicy(closedUntil time.Time) *StrictPolicy {
	return &StrictPolicy{closedUntil: closedUntil}
}

func (p *StrictPolicy) CanPost(ctx context.Context, docDate time.Time) error {
	if docDate.Before(p.closedUntil) {
		return apperror.NewPeriodClosed(p.closedUntil.Format("2006-01"))
	}
	return nil
}

func (p *StrictPolicy) CanModify(ctx context.Context, docDate time.Time) error {
	return p.CanPost(ctx, docDate)
}

func (p *StrictPolicy) CanUnpost(ctx context.Context, docDate time.Time) error {
	return p.CanPost(ctx, docDate)
}

func (p *StrictPolicy) GetClosedPeriod(ctx context.Context) time.Time {
	return p.closedUntil
}

// OpenPolicy allows all operations (for development/testing).
type OpenPolicy struct{}

func (OpenPolicy) CanPost(ctx context.Context, docDate time.Time) error   { return nil }
func (OpenPolicy) CanModify(ctx context.Context, docDate time.Time) error { return nil }
func (OpenPolicy) CanUnpost(ctx context.Context, docDate time.Time) error { return nil }
func (OpenPolicy) GetClosedPeriod(ctx context.Context) time.Time          { return time.Time{} }

// ExpressionPolicy evaluates a tenant-configured CEL expression per operation.
// The expression must return bool; true allows the operation.
//
// Available variables:
//
//	operation    string    "post" | "unpost" | "modify"
//	doc_date     timestamp business date of the document
//	closed_until timestamp end of the closed period
//	now          timestamp evaluation time
//	is_admin     bool      whether the request user is an administrator
//
// Example: let admins backdate, everyone else bound by the closed period:
//
//	doc_date >= closed_until || is_admin
type ExpressionPolicy struct {
	program     cel.Program
	source      string
	closedUntil time.Time
}

// NewExpressionPolicy compiles the CEL source once; evaluation is cheap.
func NewExpressionPolicy(source string, closedUntil time.Time) (*ExpressionPolicy, error) {
	env, err := cel.NewEnv(
		cel.Variable("operation", cel.StringType),
		cel.Variable("doc_date", cel.TimestampType),
		cel.Variable("closed_until", cel.TimestampType),
		cel.Variable("now", cel.TimestampType),
		cel.Variable("is_admin", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile posting policy %q: %w", source, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("posting policy %q must return bool, got %s", source, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build posting policy program: %w", err)
	}

	return &ExpressionPolicy{
		program:     program,
		source:      source,
		closedUntil: closedUntil,
	}, nil
}

func (p *ExpressionPolicy) evaluate(ctx context.Context, operation string, docDate time.Time) error {
	isAdmin := false
	if u := appctx.GetUser(ctx); u != nil {
		isAdmin = u.IsAdmin
	}

	out, _, err := p.program.Eval(map[string]any{
		"operation":    operation,
		"doc_date":     docDate,
		"closed_until": p.closedUntil,
		"now":          time.Now().UTC(),
		"is_admin":     isAdmin,
	})
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("evaluate posting policy: %w", err))
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return apperror.NewInternal(fmt.Errorf("posting policy %q returned %T, want bool", p.source, out.Value()))
	}
	if !allowed {
		return apperror.NewPeriodClosed(p.closedUntil.Format("2006-01")).
			WithDetail("operation", operation)
	}
	return nil
}

func (p *ExpressionPolicy) CanPost(ctx context.Context, docDate time.Time) error {
	return p.evaluate(ctx, "post", docDate)
}

func (p *ExpressionPolicy) CanModify(ctx context.Context, docDate time.Time) error {
	return p.evaluate(ctx, "modify", docDate)
}

func (p *ExpressionPolicy) CanUnpost(ctx context.Context, docDate time.Time) error {
	return p.evaluate(ctx, "unpost", docDate)
}

func (p *ExpressionPolicy) GetClosedPeriod(ctx context.Context) time.Time {
	return p.closedUntil
}
