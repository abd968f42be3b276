package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// Encryptor seals short facts (the CSRF filter uses it for session tokens)
// with AES-GCM derived from a deployment-configured private key.
type Encryptor struct {
	gcm   cipher.AEAD
	nonce []byte
}

func NewEncryptor(privateKey string) *Encryptor {
	if privateKey == "" {
		panic("PrivateKey is required to create Encryptor")
	}
	gcm, nonce := generateEncryptEntities(privateKey)
	return &Encryptor{
		gcm:   gcm,
		nonce: nonce,
	}
}

func generateEncryptEntities(privateKey string) (cipher.AEAD, []byte) {
	block, _ := aes.NewCipher(createHash(privateKey))
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		panic(err.Error())
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		panic(err.Error())
	}
	return gcm, nonce
}

func createHash(value string) []byte {
	hasher := md5.New()
	hasher.Write([]byte(value))
	return hasher.Sum(nil)
}

func (encryptor *Encryptor) Encrypt(fact string) (string, error) {
	encryptedText := encryptor.gcm.Seal(encryptor.nonce, encryptor.nonce, []byte(fact), nil)
	return hex.EncodeToString(encryptedText), nil
}

func (encryptor *Encryptor) Decrypt(encryptedFact string) (string, error) {
	encryptedBytes, err := hex.DecodeString(encryptedFact)
	if err != nil {
		return "", err
	}
	nonceSize := encryptor.gcm.NonceSize()
	if len(encryptedBytes) < nonceSize {
		return "", fmt.Errorf("encrypted value is shorter than the nonce")
	}
	nonce, ciphertext := encryptedBytes[:nonceSize], encryptedBytes[nonceSize:]
	plaintext, err := encryptor.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
