package crypto

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/midnight-hello/internal/model"
)

func TestMain(m *testing.M) {
	scryptN = 1 << 10 // keep key derivation fast in tests
	os.Exit(m.Run())
}

func TestSeedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.mns")
	seed := &model.SeedData{Seed: []byte("0123456789abcdef"), CreatedAt: "2026-10-15T10:00:00Z"}

	require.NoError(t, EncryptSeed(path, "TestNet", "mn_addr1", "", seed, []byte("pw")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3])
	assert.NotContains(t, string(raw), "0123456789abcdef")

	file, data, err := DecryptSeed(path, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "TestNet", file.Network)
	assert.Equal(t, seed.Seed, data.Seed)
	assert.Equal(t, seed.CreatedAt, data.CreatedAt)

	addr, err := ReadSeedAddress(path)
	require.NoError(t, err)
	assert.Equal(t, "mn_addr1", addr)
}

func TestDecryptSeed_WrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.mns")
	require.NoError(t, EncryptSeed(path, "TestNet", "", "", &model.SeedData{Seed: []byte("s")}, []byte("right")))

	_, _, err := DecryptSeed(path, []byte("wrong"))
	assert.True(t, errors.Is(err, ErrInvalidPassword))
}

func TestEncryptSeed_Rejects(t *testing.T) {
	dir := t.TempDir()
	seed := &model.SeedData{Seed: []byte("s")}

	assert.ErrorContains(t, EncryptSeed(filepath.Join(dir, "wallet.txt"), "TestNet", "", "", seed, []byte("pw")), ".mns")
	assert.ErrorContains(t, EncryptSeed(filepath.Join(dir, "a.mns"), "TestNet", "", "", seed, nil), "password")

	existing := filepath.Join(dir, "b.mns")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0600))
	err := EncryptSeed(existing, "TestNet", "", "", seed, []byte("pw"))
	assert.True(t, errors.Is(err, os.ErrExist))
}

func TestReadSeedFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadSeedAddress(filepath.Join(dir, "missing.mns"))
	assert.EqualError(t, err, "file does not exist")

	empty := filepath.Join(dir, "empty.mns")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, err = ReadSeedAddress(empty)
	assert.EqualError(t, err, "file is empty")

	bad := filepath.Join(dir, "bad.mns")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0600))
	_, _, err = DecryptSeed(bad, []byte("pw"))
	assert.ErrorContains(t, err, "failed to unmarshal seed file")
}
