package coordcrypt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clockgeo/internal/geo"
)

var secretV1 = bytes.Repeat([]byte{0x42}, 32)

func TestKeyring_SealOpen(t *testing.T) {
	k, err := NewKeyring("v1", map[string][]byte{"v1": secretV1})
	require.NoError(t, err)
	c := geo.Coordinate{Latitude: 39.952583, Longitude: -75.165222}

	enc, err := k.Seal(c, "rec-1|clock_in")
	require.NoError(t, err)
	assert.Equal(t, "xc20p-v1", enc.Version)
	assert.NotContains(t, enc.Latitude, "39.95")

	got, err := k.Open(enc, "rec-1|clock_in")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	t.Run("ciphertext is bound to its row", func(t *testing.T) {
		_, err := k.Open(enc, "rec-2|clock_in")
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("nonces differ between seals", func(t *testing.T) {
		again, err := k.Seal(c, "rec-1|clock_in")
		require.NoError(t, err)
		assert.NotEqual(t, enc.Latitude, again.Latitude)
	})
}

func TestKeyring_Rotation(t *testing.T) {
	secretV2 := bytes.Repeat([]byte{0x07}, 48)
	old, err := NewKeyring("v1", map[string][]byte{"v1": secretV1})
	require.NoError(t, err)
	enc, err := old.Seal(geo.Coordinate{Latitude: 1.5, Longitude: 2.5}, "aad")
	require.NoError(t, err)

	rotated, err := NewKeyring("v2", map[string][]byte{"v1": secretV1, "v2": secretV2})
	require.NoError(t, err)
	assert.Equal(t, "xc20p-v2", rotated.Version())

	got, err := rotated.Open(enc, "aad")
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.Latitude)

	onlyV2, err := NewKeyring("v2", map[string][]byte{"v2": secretV2})
	require.NoError(t, err)
	_, err = onlyV2.Open(enc, "aad")
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestKeyring_Plaintext(t *testing.T) {
	k := NewPlaintext()
	enc, err := k.Seal(geo.Coordinate{Latitude: -33.8688, Longitude: 151.2093}, "ignored")
	require.NoError(t, err)
	assert.Equal(t, PlaintextVersion, enc.Version)
	assert.Equal(t, "-33.8688", enc.Latitude)

	got, err := k.Open(enc, "other")
	require.NoError(t, err)
	assert.Equal(t, 151.2093, got.Longitude)
}

func TestNewKeyring_Validation(t *testing.T) {
	_, err := NewKeyring("v3", map[string][]byte{"v1": secretV1})
	assert.Error(t, err)

	_, err = NewKeyring("v1", map[string][]byte{"v1": []byte("short")})
	assert.Error(t, err)
}
