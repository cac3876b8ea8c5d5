package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Соль фиксированная: ключ выводится из секрета консоли, который сам по себе
// конфиденциален; соль здесь лишь разводит ключи разных приложений.
var keySalt = []byte("magic-console.backends")

const keyIterations = 4096

// DeriveKey Выводит 32-байтовый AES-ключ из секрета консоли через PBKDF2.
func DeriveKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), keySalt, keyIterations, 32, sha256.New)
}

// EncryptAES шифрует строку с помощью AES-256-GCM и возвращает base64 строку.
func EncryptAES(plaintext, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("создание AES блока: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("создание GCM режима: %w", err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("генерация nonce: %w", err)
	}

	ciphertext := aesGCM.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptAES расшифровывает base64 строку с помощью AES-256-GCM и возвращает plaintext.
func DecryptAES(encryptedText string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encryptedText)
	if err != nil {
		return "", fmt.Errorf("декодирование base64: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("создание AES блока: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("создание GCM режима: %w", err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext слишком короткий")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("расшифровка не удалась: %w", err)
	}

	return string(plaintext), nil
}
