package sql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueConstraintError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"PostgresTyped", &pq.Error{Code: "23505"}, true},
		{"PostgresTypedOther", &pq.Error{Code: "23503"}, false},
		{"MySQLTyped", &mysql.MySQLError{Number: 1062}, true},
		{"MySQLTypedOther", &mysql.MySQLError{Number: 1451}, false},
		{"PostgresString", errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`), true},
		{"SQLiteString", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), true},
		{"MySQLString", errors.New("Error 1062: Duplicate entry 'a@b.c' for key 'email'"), true},
		{"Wrapped", fmt.Errorf("save user: %w", &pq.Error{Code: "23505"}), true},
		{"Unrelated", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsUniqueConstraintError(tt.err))
		})
	}
}

func TestIsForeignKeyConstraintError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"PostgresTyped", &pq.Error{Code: "23503"}, true},
		{"MySQLParent", &mysql.MySQLError{Number: 1451}, true},
		{"MySQLChild", &mysql.MySQLError{Number: 1452}, true},
		{"SQLiteString", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), true},
		{"Unrelated", errors.New("syntax error"), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsForeignKeyConstraintError(tt.err))
		})
	}
}

func TestIsCheckConstraintError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"PostgresTyped", &pq.Error{Code: "23514"}, true},
		{"MySQLTyped", &mysql.MySQLError{Number: 3819}, true},
		{"SQLiteString", errors.New("constraint failed: CHECK constraint failed: price_positive (275)"), true},
		{"Unrelated", errors.New("deadlock detected"), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsCheckConstraintError(tt.err))
		})
	}
}

func TestIsConstraintError(t *testing.T) {
	t.Parallel()
	assert.True(t, IsConstraintError(&pq.Error{Code: "23505"}))
	assert.True(t, IsConstraintError(&mysql.MySQLError{Number: 1452}))
	assert.True(t, IsConstraintError(&pq.Error{Code: "23514"}))
	assert.False(t, IsConstraintError(errors.New("io timeout")))
	assert.False(t, IsConstraintError(nil))
}
