package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/midnight-hello/internal/common"
	"github.com/AlexZinkM/midnight-hello/internal/model"
)

// ErrInvalidPassword is returned when the seed file cannot be opened with the given password
var ErrInvalidPassword = errors.New("invalid password")

// DecryptSeed reads and decrypts a .mns file
// password must be []byte for security (caller should zero it after use)
func DecryptSeed(filePath string, password []byte) (*model.SeedFile, *model.SeedData, error) {
	seedFile, err := readSeedFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(seedFile.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(seedFile.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(seedFile.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return nil, nil, err
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, nil, errors.New("invalid nonce length")
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, ErrInvalidPassword
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var seedData model.SeedData
	if err := json.Unmarshal(plaintext, &seedData); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal seed data: %w", err)
	}

	return seedFile, &seedData, nil
}

// ReadSeedAddress reads only the address from a .mns file (without decryption)
func ReadSeedAddress(filePath string) (string, error) {
	seedFile, err := readSeedFile(filePath)
	if err != nil {
		return "", err
	}
	return seedFile.Address, nil
}

func readSeedFile(filePath string) (*model.SeedFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var seedFile model.SeedFile
	if err := json.Unmarshal(common.TrimBOM(fileData), &seedFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed file: %w", err)
	}
	return &seedFile, nil
}
