package plantid

import "encoding/json"

// Assessment is the canonical, schema-independent view of a vendor
// diagnosis payload. Every section is optional: the vendor omits whole
// branches depending on request modifiers and API version, so consumers
// must treat absence as a normal case, not an error.
type Assessment struct {
	IsHealthy          *HealthFlag
	DiseaseSuggestions []DiseaseSuggestion
	PlantSuggestions   []PlantSuggestion
	Question           *FollowUpQuestion
	// Raw keeps the vendor payload verbatim for audit and debugging.
	Raw json.RawMessage
}

type HealthFlag struct {
	Binary      bool
	Probability *float64
}

type DiseaseSuggestion struct {
	Name          string
	Probability   float64
	Details       *DiseaseDetails
	SimilarImages []SimilarImage
}

type DiseaseDetails struct {
	Description string
	Treatment   []string
}

type PlantSuggestion struct {
	PlantName     string
	Probability   float64
	SimilarImages []SimilarImage
}

type SimilarImage struct {
	URL string
}

// FollowUpQuestion is decoded for completeness but not acted on by the
// diagnosis flow; clients may surface it to the user.
type FollowUpQuestion struct {
	Text    string
	Options []string
}
