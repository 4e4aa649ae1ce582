package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// UserID is the stable external identifier of a community member.
// It is assigned by the membership layer and never changes once assigned.
type UserID int64

// ID is a unique identifier for derived entities such as history records.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CandidateSource identifies which retrieval path produced a candidate.
type CandidateSource int

const (
	// CandidateSourceKeyword marks candidates found by keyword substring search.
	CandidateSourceKeyword CandidateSource = iota + 1
	// CandidateSourceVector marks candidates found by vector similarity search.
	CandidateSourceVector
)

// Profile is a community member's questionnaire in its processed form.
// The three answers are stored normalized; Keywords is derived from them and
// recomputed together with the answers on every update. The profile's
// embedding lives in the vector index, keyed by the same UserID.
type Profile struct {
	Id        UserID
	Username  string
	FirstName string
	LastName  string
	Field     string // field of activity
	Seeking   string // what the member is looking for in the community
	Offering  string // what the member can offer to others
	Keywords  []string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Answers returns the three profile answers in their canonical order.
func (p *Profile) Answers() [3]string {
	return [3]string{p.Field, p.Seeking, p.Offering}
}

// DisplayName returns the best available human-readable name for the member.
func (p *Profile) DisplayName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.Username != "" {
		return p.Username
	}
	return fmt.Sprintf("Member %d", p.Id)
}

// HistoryEntry is an archived profile version, written when a profile is
// superseded by an update. History is kept until the member is deleted.
type HistoryEntry struct {
	Id         ID
	UserId     UserID
	Field      string
	Seeking    string
	Offering   string
	Keywords   []string
	ArchivedAt time.Time
}

// HistoryID generates a deterministic ID for an archived profile version.
func HistoryID(userID UserID, field, seeking, offering string, archivedAt time.Time) ID {
	return IDFromContent(fmt.Sprintf("%d|%s|%s|%s|%d",
		userID, field, seeking, offering, archivedAt.UnixMicro()))
}

// Candidate is a profile under consideration as a match for a requester.
// Score carries the cosine similarity for vector-sourced candidates and is
// zero for keyword-sourced ones.
type Candidate struct {
	Profile *Profile
	Source  CandidateSource
	Score   float32
}

// Match is a ranked candidate with the ranker's score and explanation.
// Scores are in the 1-10 range; higher means more relevant.
type Match struct {
	Profile *Profile
	Score   float64
	Reason  string
}

// MatchResult is the complete outcome of one matching request: the ranked
// matches plus a short presentation summary. An empty Matches slice means
// "no matches available", regardless of why.
type MatchResult struct {
	Matches []Match
	Summary string
}
