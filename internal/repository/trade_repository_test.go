package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderByClause(t *testing.T) {
	tests := []struct {
		name     string
		sort     string
		asc      bool
		expected string
	}{
		{
			name:     "date descending",
			sort:     "date",
			expected: " ORDER BY t.date DESC, t.created_at DESC",
		},
		{
			name:     "date ascending",
			sort:     "date",
			asc:      true,
			expected: " ORDER BY t.date ASC, t.created_at DESC",
		},
		{
			name:     "rrr ascending",
			sort:     "rrr",
			asc:      true,
			expected: " ORDER BY t.rrr ASC, t.created_at DESC",
		},
		{
			name:     "instrument descending",
			sort:     "instrument",
			expected: " ORDER BY t.instrument DESC, t.created_at DESC",
		},
		{
			name:     "empty falls back to default",
			sort:     "",
			expected: " ORDER BY t.date DESC, t.created_at DESC",
		},
		{
			name:     "unknown field falls back to default",
			sort:     "user_id",
			expected: " ORDER BY t.date DESC, t.created_at DESC",
		},
		{
			name:     "injection attempt falls back to default",
			sort:     "date; DROP TABLE trades",
			expected: " ORDER BY t.date DESC, t.created_at DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderByClause(tt.sort, tt.asc))
		})
	}
}
