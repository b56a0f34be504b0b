package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pgx", &pgconn.PgError{Code: "23505"}, true},
		{"pgx wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pq", &pq.Error{Code: "23505"}, true},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"other pg code", &pgconn.PgError{Code: "23503"}, false},
		{"plain", errors.New("duplicate"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}
