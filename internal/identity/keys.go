package identity

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	hashKeyLen  = 64
	blockKeyLen = 32

	hashKeyInfo  = "session-demo cookie hmac"
	blockKeyInfo = "session-demo cookie aes"
)

// Keys は署名用と暗号化用の鍵の組です。
type Keys struct {
	Hash  []byte
	Block []byte
}

// DeriveKeys は1つのシークレットから HKDF-SHA256 で署名鍵と暗号鍵を導出します。
// 同じシークレットからは常に同じ鍵が得られます。
func DeriveKeys(secret []byte) (Keys, error) {
	if len(secret) == 0 {
		return Keys{}, errors.New("identity: secret is empty")
	}

	hash, err := expand(secret, hashKeyInfo, hashKeyLen)
	if err != nil {
		return Keys{}, err
	}
	block, err := expand(secret, blockKeyInfo, blockKeyLen)
	if err != nil {
		return Keys{}, err
	}
	return Keys{Hash: hash, Block: block}, nil
}

// Pairs は gorilla/sessions 系ストアに渡す鍵ペアの並びを返します。
func (k Keys) Pairs() [][]byte {
	return [][]byte{k.Hash, k.Block}
}

func (k Keys) validate() error {
	if len(k.Hash) == 0 {
		return errors.New("identity: hash key is empty")
	}
	switch len(k.Block) {
	case 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("identity: block key must be 16, 24 or 32 bytes, got %d", len(k.Block))
	}
}

func expand(secret []byte, info string, n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("identity: derive %q key: %w", info, err)
	}
	return key, nil
}
