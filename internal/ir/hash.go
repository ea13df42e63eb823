package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainBindings = "bindgen/bindings/v1"
	DomainDocument = "bindgen/document/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed identity for the bindings.
// Identical descriptions produce identical fingerprints; map-typed fields
// are marshaled with sorted keys.
func (b *Bindings) Fingerprint() (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainBindings, data), nil
}

// DocumentHash computes the identity of a rendered document.
func DocumentHash(doc string) string {
	return hashWithDomain(DomainDocument, []byte(doc))
}
