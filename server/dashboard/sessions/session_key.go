package sessions

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

const sessionKeyFileName = "vidfolio_session.txt"
const sessionKeyLength = 64

// GetOrCreateSessionKey reads the cookie signing key from dir.
// If the file doesn't exist, it generates a new key, saves it, and returns it.
func GetOrCreateSessionKey(dir string) ([]byte, error) {
	keyPath := filepath.Join(dir, sessionKeyFileName)

	key, err := os.ReadFile(keyPath)
	if err == nil {
		decodedKey, err := base64.StdEncoding.DecodeString(string(key))
		if err != nil {
			return nil, fmt.Errorf("failed to decode existing session key: %w", err)
		}
		return decodedKey, nil
	}

	if os.IsNotExist(err) {
		newKey := make([]byte, sessionKeyLength)
		if _, err := rand.Read(newKey); err != nil {
			return nil, fmt.Errorf("failed to generate new session key: %w", err)
		}

		encodedKey := base64.StdEncoding.EncodeToString(newKey)
		if err := os.WriteFile(keyPath, []byte(encodedKey), 0600); err != nil {
			return nil, fmt.Errorf("failed to save new session key: %w", err)
		}

		return newKey, nil
	}

	return nil, fmt.Errorf("failed to read session key file: %w", err)
}
