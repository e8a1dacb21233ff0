package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want SQLError
	}{
		{"nil", nil, UnknownErr},
		{"no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), NoRowsErr},
		{"pq unique", &pq.Error{Code: "23505"}, DuplicateKeyErr},
		{"pq foreign key", &pq.Error{Code: "23503"}, ForeignKeyViolationErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, DuplicateKeyErr},
		{"mysql row referenced", &mysql.MySQLError{Number: 1451}, ForeignKeyViolationErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: birds.ring_number (2067)"), DuplicateKeyErr},
		{"sqlite foreign key", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), ForeignKeyViolationErr},
		{"sqlite not null", errors.New("NOT NULL constraint failed: birds.loft_id"), NotNullViolationErr},
		{"other", errors.New("connection reset"), UnknownErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "op", "bird"))
	assert.ErrorIs(t, translate(sql.ErrNoRows, "get bird", "bird"), apperr.ErrNotFound)

	err := translate(&pq.Error{Code: "23505"}, "insert bird", "bird")
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)
	assert.Contains(t, err.Error(), "insert bird")
}
