package linkcodes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "this_is_a_very_long_secret_key_for_testing_12345"

func TestNewSignerRejectsShortSecret(t *testing.T) {
	_, err := NewSigner([]byte("too-short"))
	require.Error(t, err)
}

func TestCreateAndReadCodeRoundTrips(t *testing.T) {
	signer, err := NewSigner([]byte(testSecret))
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	token, err := signer.CreateCode("ABCD-1234", now, 30*time.Second)
	require.NoError(t, err)

	code, err := signer.ReadData(token, now.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "ABCD-1234", code)
}

func TestReadDataRejectsExpiredCode(t *testing.T) {
	signer, err := NewSigner([]byte(testSecret))
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	token, err := signer.CreateCode("ABCD-1234", now, 30*time.Second)
	require.NoError(t, err)

	_, err = signer.ReadData(token, now.Add(31*time.Second))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestReadDataRejectsForgedSignature(t *testing.T) {
	signer, err := NewSigner([]byte(testSecret))
	require.NoError(t, err)
	other, err := NewSigner([]byte("a-completely-different-secret-value-0000"))
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	token, err := other.CreateCode("ABCD-1234", now, 30*time.Second)
	require.NoError(t, err)

	_, err = signer.ReadData(token, now)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrExpired)
}
