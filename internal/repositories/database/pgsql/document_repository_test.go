package pgsql

import (
	"testing"

	"github.com/google/uuid"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func linesWithIDs(ids ...string) []domain.DocumentLine {
	lines := make([]domain.DocumentLine, len(ids))
	for i, id := range ids {
		lines[i] = domain.DocumentLine{LineID: id}
	}
	return lines
}

func TestSameLineSet(t *testing.T) {
	a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()

	tests := []struct {
		name     string
		lines    []domain.DocumentLine
		lineIDs  []string
		expected bool
	}{
		{"identical set", linesWithIDs(a, b), []string{a, b}, true},
		{"same set reordered", linesWithIDs(b, a), []string{a, b}, true},
		{"replaced line", linesWithIDs(a, c), []string{a, b}, false},
		{"line removed", linesWithIDs(a), []string{a, b}, false},
		{"line added", linesWithIDs(a, b, c), []string{a, b}, false},
		{"both empty", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sameLineSet(tt.lines, tt.lineIDs))
		})
	}
}

func TestLineAccountIDs(t *testing.T) {
	general, sub, detail := uuid.NewString(), uuid.NewString(), uuid.NewString()
	lines := []domain.DocumentLine{
		{GeneralAccountID: general, SubAccountID: &sub, DetailAccountID: &detail},
		{GeneralAccountID: general, SubAccountID: &sub},
	}

	// Every tier appears once, in first-seen order, with repeats collapsed.
	assert.Equal(t, []string{general, sub, detail}, lineAccountIDs(lines))
}
