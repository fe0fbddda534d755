package service

import (
	"crypto/rand"
	"strings"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
)

// secretAlphabet leaves out 0, O, 1, l, I and the "_" delimiter.
const secretAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// SecretBodyLength is the number of random characters after SecretPrefix.
const SecretBodyLength = 32

// rejection threshold: the largest multiple of len(secretAlphabet) below 256.
const maxUnbiasedByte = 256 - 256%len(secretAlphabet)

type keyGenerator struct{}

// NewKeyGenerator creates a KeyGenerator backed by crypto/rand.
func NewKeyGenerator() KeyGenerator {
	return &keyGenerator{}
}

// Generate returns "dandi_" followed by 32 uniformly drawn alphabet characters.
// The namespace is the same for every class.
func (g *keyGenerator) Generate(_ apikeyDomain.KeyClass) string {
	var sb strings.Builder
	sb.Grow(len(apikeyDomain.SecretPrefix) + SecretBodyLength)
	sb.WriteString(apikeyDomain.SecretPrefix)

	buf := make([]byte, SecretBodyLength*2)
	for n := 0; n < SecretBodyLength; {
		_, _ = rand.Read(buf) // never returns an error
		for _, b := range buf {
			if int(b) >= maxUnbiasedByte {
				continue
			}
			sb.WriteByte(secretAlphabet[int(b)%len(secretAlphabet)])
			n++
			if n == SecretBodyLength {
				break
			}
		}
	}

	return sb.String()
}
