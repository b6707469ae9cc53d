// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
)

// maxSecretSize bounds secret files. Bot tokens are under 100 bytes.
const maxSecretSize = 64 << 10

// FromEnv moves the value of the environment variable name into a
// Buffer and unsets the variable so child processes never see it.
func FromEnv(name string) (*Buffer, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return nil, fmt.Errorf("secret: environment variable %s is not set", name)
	}
	os.Unsetenv(name)
	trimmed := bytes.TrimSpace([]byte(value))
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("secret: environment variable %s is empty", name)
	}
	return NewFromBytes(trimmed)
}

// ReadFile reads a secret from path, trimming surrounding whitespace.
func ReadFile(path string) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	defer file.Close()
	return fromReader(file, path)
}

// ReadAgeFile decrypts the age file at path with the identities listed
// in identityPath (the format age-keygen writes).
func ReadAgeFile(path, identityPath string) (*Buffer, error) {
	identityFile, err := os.Open(identityPath)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	identities, err := age.ParseIdentities(identityFile)
	identityFile.Close()
	if err != nil {
		return nil, fmt.Errorf("secret: parsing identities in %s: %w", identityPath, err)
	}

	ciphertext, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	defer ciphertext.Close()

	plaintext, err := age.Decrypt(ciphertext, identities...)
	if err != nil {
		return nil, fmt.Errorf("secret: decrypting %s: %w", path, err)
	}
	return fromReader(plaintext, path)
}

func fromReader(reader io.Reader, source string) (*Buffer, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxSecretSize+1))
	if err != nil {
		Zero(data)
		return nil, fmt.Errorf("secret: reading %s: %w", source, err)
	}
	if len(data) > maxSecretSize {
		Zero(data)
		return nil, fmt.Errorf("secret: %s exceeds %d bytes", source, maxSecretSize)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret: %s is empty", source)
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	return buffer, err
}
