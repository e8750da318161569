// Package status implements workflow state machines for documents.
// Each document type declares its allowed transitions once; services ask
// the machine to validate a change instead of hand-rolling if-chains.
package status

import (
	"sort"

	"tradecore/internal/core/apperror"
)

// Status is a document workflow state ("draft", "sent", "paid", ...).
type Status string

const (
	Draft Status = "draft"
)

// Machine validates status transitions for one document type.
// It is immutable after construction and safe for concurrent use.
type Machine struct {
	docType     string
	initial     Status
	transitions map[Status]map[Status]struct{}
}

// NewMachine builds a machine from the allowed transition table.
// Keys are source statuses, values the statuses reachable from them.
// A status absent from the table (or with an empty list) is terminal.
func NewMachine(docType string, initial Status, transitions map[Status][]Status) *Machine {
	m := &Machine{
		docType:     docType,
		initial:     initial,
		transitions: make(map[Status]map[Status]struct{}, len(transitions)),
	}
	for from, targets := range transitions {
		set := make(map[Status]struct{}, len(targets))
		for _, to := range targets {
			set[to] = struct{}{}
		}
		m.transitions[from] = set
	}
	return m
}

// Initial returns the status new documents start in.
func (m *Machine) Initial() Status {
	return m.initial
}

// Known reports whether the machine has ever heard of s,
// either as a source or a target of some transition.
func (m *Machine) Known(s Status) bool {
	if s == m.initial {
		return true
	}
	if _, ok := m.transitions[s]; ok {
		return true
	}
	for _, targets := range m.transitions {
		if _, ok := targets[s]; ok {
			return true
		}
	}
	return false
}

// CanTransition reports whether from → to is declared.
func (m *Machine) CanTransition(from, to Status) bool {
	targets, ok := m.transitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Transition validates from → to and returns a business rule error
// naming the allowed targets when the change is not declared.
func (m *Machine) Transition(from, to Status) error {
	if m.CanTransition(from, to) {
		return nil
	}
	return apperror.NewInvalidTransition(m.docType, string(from), string(to), m.allowedStrings(from))
}

// AllowedFrom returns the declared targets of from, sorted for stable output.
func (m *Machine) AllowedFrom(from Status) []Status {
	targets := m.transitions[from]
	out := make([]Status, 0, len(targets))
	for to := range targets {
		out = append(out, to)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsTerminal reports whether the status has no outgoing transitions.
func (m *Machine) IsTerminal(s Status) bool {
	return len(m.transitions[s]) == 0
}

func (m *Machine) allowedStrings(from Status) []string {
	allowed := m.AllowedFrom(from)
	out := make([]string, len(allowed))
	for i, s := range allowed {
		out[i] = string(s)
	}
	return out
}
