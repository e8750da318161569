package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/apperror"
)

func invoiceMachine() *Machine {
	return NewMachine("sales_invoice", Draft, map[Status][]Status{
		Draft:  {"sent"},
		"sent": {"paid", Draft},
	})
}

func TestMachine_Transition(t *testing.T) {
	m := invoiceMachine()

	assert.NoError(t, m.Transition(Draft, "sent"))
	assert.NoError(t, m.Transition("sent", "paid"))
	assert.NoError(t, m.Transition("sent", Draft))
}

func TestMachine_RejectsUndeclaredTransition(t *testing.T) {
	m := invoiceMachine()

	err := m.Transition(Draft, "paid")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
	assert.Equal(t, "sales_invoice", appErr.Details["document_type"])
	assert.Equal(t, []string{"sent"}, appErr.Details["allowed"])
}

func TestMachine_TerminalStatus(t *testing.T) {
	m := invoiceMachine()

	assert.True(t, m.IsTerminal("paid"))
	assert.False(t, m.IsTerminal("sent"))
	assert.Error(t, m.Transition("paid", Draft))
}

func TestMachine_Known(t *testing.T) {
	m := invoiceMachine()

	assert.True(t, m.Known(Draft))
	assert.True(t, m.Known("paid"))
	assert.False(t, m.Known("archived"))
}
