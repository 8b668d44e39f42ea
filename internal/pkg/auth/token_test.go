package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/airenas/scribe/internal/pkg/roles"
	"github.com/airenas/scribe/internal/pkg/utils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaker(t *testing.T) *TokenMaker {
	t.Helper()
	v := viper.New()
	v.Set("auth.secret", "olia-secret")
	v.Set("auth.expiresIn", "1h")
	res, err := NewTokenMaker(v)
	require.Nil(t, err)
	return res
}

func TestNewTokenMaker_FailNoSecret(t *testing.T) {
	_, err := NewTokenMaker(viper.New())
	assert.NotNil(t, err)
}

func TestMintVerify(t *testing.T) {
	tm := newTestMaker(t)
	token, err := tm.Mint("u1", roles.Transcriber)
	require.Nil(t, err)
	require.NotEmpty(t, token)

	id, err := tm.Verify(token)
	require.Nil(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, roles.Transcriber, id.Role)
}

func TestVerify_FailGarbage(t *testing.T) {
	tm := newTestMaker(t)
	_, err := tm.Verify("olia")
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))
}

func TestVerify_FailWrongSecret(t *testing.T) {
	tm := newTestMaker(t)
	token, err := tm.Mint("u1", roles.Admin)
	require.Nil(t, err)

	other := &TokenMaker{secret: []byte("other"), expiresIn: time.Hour}
	_, err = other.Verify(token)
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))
}

func TestVerify_FailExpired(t *testing.T) {
	tm := &TokenMaker{secret: []byte("olia"), expiresIn: -time.Minute}
	token, err := tm.Mint("u1", roles.Admin)
	require.Nil(t, err)
	_, err = tm.Verify(token)
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))
}

func TestVerify_FailNoRole(t *testing.T) {
	tm := newTestMaker(t)
	token, err := tm.Mint("u1", 0)
	require.Nil(t, err)
	_, err = tm.Verify(token)
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))
}

func Test_DefaultExpiry(t *testing.T) {
	v := viper.New()
	v.Set("auth.secret", "olia")
	tm, err := NewTokenMaker(v)
	require.Nil(t, err)
	assert.Equal(t, time.Hour, tm.expiresIn)
}
