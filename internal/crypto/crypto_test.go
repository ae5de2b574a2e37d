package crypto

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// keep key derivation fast in tests
	scryptN = 1 << 10
	os.Exit(m.Run())
}

func TestGenerateAndDecrypt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")

	address, err := GenerateWallet(path, []byte("dev"))
	require.NoError(t, err)

	fromFile, err := ReadWalletAddress(path)
	require.NoError(t, err)
	assert.Equal(t, address, fromFile)

	cwt, data, err := DecryptWallet(path, []byte("dev"))
	require.NoError(t, err)
	assert.Equal(t, NetworkEthereum, cwt.Network)
	assert.NotEmpty(t, data.CreatedAt)

	key, err := ethcrypto.ToECDSA(data.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, address, ethcrypto.PubkeyToAddress(key.PublicKey).Hex())

	png, err := base64.StdEncoding.DecodeString(cwt.QR)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestDecryptWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	_, err := GenerateWallet(path, []byte("dev"))
	require.NoError(t, err)

	_, _, err = DecryptWallet(path, []byte("nope"))
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestGenerateRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

	_, err := GenerateWallet(path, []byte("dev"))
	assert.True(t, IsFileExistsError(err))
}

func TestGenerateReusesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	_, err := GenerateWallet(path, []byte("dev"))
	assert.NoError(t, err)
}

func TestEncryptValidation(t *testing.T) {
	dir := t.TempDir()
	_, err := GenerateWallet(filepath.Join(dir, "wallet.txt"), []byte("dev"))
	assert.EqualError(t, err, "file must have .cwt extension")

	_, err = GenerateWallet(filepath.Join(dir, "wallet.cwt"), nil)
	assert.EqualError(t, err, "password cannot be empty")
}

func TestReadWalletAddressErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadWalletAddress(filepath.Join(dir, "missing.cwt"))
	assert.EqualError(t, err, "file does not exist")

	empty := filepath.Join(dir, "empty.cwt")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, err = ReadWalletAddress(empty)
	assert.EqualError(t, err, "file is empty")

	withBOM := filepath.Join(dir, "bom.cwt")
	require.NoError(t, os.WriteFile(withBOM, append([]byte{0xEF, 0xBB, 0xBF}, `{"address":"0xabc"}`...), 0600))
	address, err := ReadWalletAddress(withBOM)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", address)
}
