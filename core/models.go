package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated from stable content (the place's source URL) so that
// repeated ingestion runs assign the same ID to the same place.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MenuItem is one dish on a place's menu.
// Source data sometimes carries a bare dish name; ingestion canonicalizes
// those to a MenuItem with Price 0 (unknown).
type MenuItem struct {
	Name  string
	Price float64
}

// Review is one customer review of a place.
type Review struct {
	Rating  float64
	Content string
	Author  string
}

// AttributeScores holds the named quality scores of a place on a 0-10 scale.
// Missing scores default to 0.
type AttributeScores struct {
	Space    float64
	Position float64
	Quality  float64
	Service  float64
	Price    float64
}

// Place represents one point of interest (a restaurant).
// Places are created by the ingestion pipeline and read-only afterwards.
type Place struct {
	Id           ID
	Name         string
	Address      string
	Location     GeoPoint
	AvgRating    float64
	OpeningHours string
	PriceRange   string
	AvatarURL    string
	SourceURL    string
	Menu         []MenuItem
	Reviews      []Review
	Scores       AttributeScores
	InsertedAt   time.Time // When the record was inserted into the database
	UpdatedAt    time.Time // When the record was last updated
}

// Candidate is a place annotated with its scores for one specific query.
type Candidate struct {
	Place          *Place
	SemanticScore  float64
	LexicalScore   float64
	RelevanceScore float64 // Alpha blend of semantic and lexical scores
	DistanceKm     float64 // Distance to the query center; -1 when no geo filter was applied
	FinalScore     float64 // Weighted blend of relevance and distance scores
}

// Step is one intent within a multi-intent query: a search keyword, an
// optional locality filter, and the candidates resolved for it.
type Step struct {
	Index      int
	Keyword    string
	Locality   string
	Candidates []Candidate
}

// RoutePlan is an ordered, non-repeating sequence of places answering all
// steps of a multi-intent query.
type RoutePlan struct {
	RouteID         string
	Stops           []Candidate
	TotalScore      float64
	TotalDistanceKm float64
}

// StopIDs returns the place IDs of the plan's stops in visit order.
func (p *RoutePlan) StopIDs() []ID {
	ids := make([]ID, len(p.Stops))
	for i, stop := range p.Stops {
		ids[i] = stop.Place.Id
	}
	return ids
}
