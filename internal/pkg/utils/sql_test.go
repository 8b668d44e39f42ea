package utils

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSQLStr(t *testing.T) {
	assert.Equal(t, sql.NullString{String: "olia", Valid: true}, ToSQLStr("olia"))
	assert.Equal(t, sql.NullString{String: "", Valid: false}, ToSQLStr(""))
}

func TestFromSQLStr(t *testing.T) {
	assert.Equal(t, "olia", FromSQLStr(sql.NullString{String: "olia", Valid: true}))
	assert.Equal(t, "", FromSQLStr(sql.NullString{String: "olia", Valid: false}))
}

func TestToSQLFloat64(t *testing.T) {
	assert.Equal(t, sql.NullFloat64{Float64: 10.5, Valid: true}, ToSQLFloat64(10.5))
	assert.Equal(t, sql.NullFloat64{Float64: 0, Valid: false}, ToSQLFloat64(0))
}

func TestFromSQLFloat64OrZero(t *testing.T) {
	assert.Equal(t, 10.5, FromSQLFloat64OrZero(sql.NullFloat64{Float64: 10.5, Valid: true}))
	assert.Equal(t, float64(0), FromSQLFloat64OrZero(sql.NullFloat64{Float64: 10.5, Valid: false}))
}
