package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities, derived from content hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fingerprint generates a stable cache key for a candidate from its
// identifying fields. The description is hashed separately so that long
// snippets do not produce unwieldy keys.
func Fingerprint(name, description string) ID {
	return IDFromContent(name + ":" + IDFromContent(description).String())
}

// String renders the ID as a fixed-width hex string suitable for cache keys.
func (id ID) String() string {
	const hexdigits = "0123456789abcdef"
	var buf [16]byte
	v := uint64(id)
	for i := 15; i >= 0; i-- {
		buf[i] = hexdigits[v&0xf]
		v >>= 4
	}
	return string(buf[:])
}

// LocationUnspecified is the sentinel used when no location could be
// extracted for a candidate.
const LocationUnspecified = "Location not specified"

// VerificationStatus describes how far a supplier record made it through
// enrichment.
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "verified"
	StatusUnverified VerificationStatus = "unverified"
	StatusPending    VerificationStatus = "pending"
	StatusFailed     VerificationStatus = "failed"
)

// SearchHit is one raw result from the web-search provider.
// Relevance is mutable while the hit moves through aggregation and ranking;
// after hand-off to extraction the hit is treated as immutable.
type SearchHit struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Snippet   string  `json:"snippet"`
	Source    string  `json:"source"` // origin domain
	Relevance float64 `json:"relevance"`
}

// Candidate is an extracted, not-yet-verified supplier record.
// It is derived deterministically from a single SearchHit.
type Candidate struct {
	Name            string  `json:"name"`
	Location        string  `json:"location"`    // best effort, or LocationUnspecified
	Description     string  `json:"description"` // source snippet
	Website         string  `json:"website"`
	Domain          string  `json:"domain"`
	SourceTitle     string  `json:"source_title"`
	SearchRelevance float64 `json:"search_relevance"`
}

// VerifiedSupplier is a candidate that passed through enrichment.
// ConfidenceScore is always recomputed by the ranking engine; the value a
// provider reports is only one weighted input.
type VerifiedSupplier struct {
	Candidate

	ConfidenceScore float64            `json:"confidence_score"`
	Certifications  []string           `json:"certifications"`
	Specialties     []string           `json:"specialties"`
	CompanySize     string             `json:"company_size,omitempty"`
	Status          VerificationStatus `json:"verification_status"`
	ContactInfo     map[string]string  `json:"contact_info,omitempty"`
	Rating          *float64           `json:"rating"` // 1.0-5.0, nil when unknown
}

// HasRating reports whether a usable rating is attached.
func (s *VerifiedSupplier) HasRating() bool {
	return s.Rating != nil && *s.Rating > 0
}
