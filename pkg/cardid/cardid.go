// Package cardid deriva el hash argon2id de los identificadores de tarjeta.
// La sal es anual: el mismo id da el mismo hash dentro de un año, lo que permite buscar por igualdad.
package cardid

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	saltLength          = 16
)

var ErrEmpty = errors.New("cardid: id de tarjeta vacío")

// NewSalt genera una sal aleatoria codificada en base64.
func NewSalt() (string, error) {
	b := make([]byte, saltLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}

// Hash devuelve el hash argon2id de cardID con salt, en base64.
func Hash(cardID, salt string) (string, error) {
	if cardID == "" {
		return "", ErrEmpty
	}
	key := argon2.IDKey([]byte(cardID), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// Verify compara en tiempo constante.
func Verify(cardID, salt, hash string) bool {
	got, err := Hash(cardID, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(hash)) == 1
}
