// keygen creates an encrypted Ethereum key file for the keystore wallet provider.
// Usage: go run ./cmd/keygen --out wallet.cwt
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/wave-portal/internal/config"
	"github.com/AlexZinkM/wave-portal/internal/crypto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var outPath string

var rootCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a wallet key file",
	Long:  `Generates a new Ethereum key, encrypts it with a password and writes it to a .cwt file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readNewPassword()
		if err != nil {
			return err
		}
		defer clear(password) // Always clear password from memory

		address, err := crypto.GenerateWallet(outPath, password)
		if err != nil {
			if crypto.IsFileExistsError(err) {
				return fmt.Errorf("%w, refusing to overwrite", err)
			}
			return fmt.Errorf("failed to generate wallet: %w", err)
		}

		color.Green("Wallet written to %s", outPath)
		fmt.Printf("Address: %s\n", color.CyanString(address))
		fmt.Printf("Set WALLET_FILE_PATH=%s to use it\n", outPath)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "wallet.cwt", "path of the key file to create")
}

func readNewPassword() ([]byte, error) {
	password, err := config.ReadPassword("New wallet password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := config.ReadPassword("Repeat password: ")
	if err != nil {
		clear(password)
		return nil, err
	}
	defer clear(confirm)

	if !bytes.Equal(password, confirm) {
		clear(password)
		return nil, errors.New("passwords do not match")
	}
	return password, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
