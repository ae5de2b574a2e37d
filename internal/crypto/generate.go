package crypto

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/AlexZinkM/wave-portal/internal/model"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/skip2/go-qrcode"
)

// NetworkEthereum is the network recorded in generated key files
const NetworkEthereum = "ethereum"

// FileExistsError is returned when the target key file already has content
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("file is not empty: %s", e.Path)
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	_, ok := err.(*FileExistsError)
	return ok
}

// GenerateWallet creates a new secp256k1 key and saves it to a .cwt file.
// Returns the checksummed address on success.
// password must be []byte for security (caller should zero it after use)
func GenerateWallet(filePath string, password []byte) (string, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	privateKey := ethcrypto.FromECDSA(key)
	defer clear(privateKey)

	address := ethcrypto.PubkeyToAddress(key.PublicKey).Hex()

	qrCode, err := GenerateQRCode(address)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	walletData := &model.WalletData{
		PrivateKey: privateKey,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
	if err := EncryptWallet(filePath, NetworkEthereum, address, qrCode, walletData, password); err != nil {
		return "", err
	}
	return address, nil
}

// GenerateQRCode returns a base64 PNG QR code of address
func GenerateQRCode(address string) (string, error) {
	png, err := qrcode.Encode(address, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
