package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := Encrypt([]byte("EAABsbCS1234"), testKey)
	require.NoError(t, err)
	require.NotEmpty(t, encrypted)
	assert.NotEqual(t, "EAABsbCS1234", encrypted)

	decrypted, err := Decrypt(encrypted, testKey)
	require.NoError(t, err)
	assert.Equal(t, "EAABsbCS1234", decrypted)
}

func TestEncryptProducesDifferentCiphertexts(t *testing.T) {
	first, err := Encrypt([]byte("same plaintext"), testKey)
	require.NoError(t, err)
	second, err := Encrypt([]byte("same plaintext"), testKey)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptWithWrongKey(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), testKey)
	require.NoError(t, err)

	otherKey := []byte("fedcba9876543210fedcba9876543210")
	_, err = Decrypt(encrypted, otherKey)
	assert.Error(t, err)
}

func TestDecryptGarbage(t *testing.T) {
	_, err := Decrypt("not-base64!!!", testKey)
	assert.Error(t, err)
}

func TestGenerateRandomKey(t *testing.T) {
	first, err := GenerateRandomKey(16)
	require.NoError(t, err)
	second, err := GenerateRandomKey(16)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
