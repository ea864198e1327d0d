package plantid

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

var ErrInvalidPayload = errors.New("plantid: payload is not a JSON object")

// The vendor shipped two wire formats over the product's lifetime: v2 puts
// health data under "health_assessment" and species guesses at the top
// level, v3 nests everything under "result". DecodeAssessment detects the
// shape and maps either one into the canonical Assessment, so downstream
// code never sees the difference.
func DecodeAssessment(data []byte) (*Assessment, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, ErrInvalidPayload
	}
	if probe == nil {
		return nil, ErrInvalidPayload
	}

	var wire wirePayload
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, ErrInvalidPayload
	}

	assessment := &Assessment{Raw: append(json.RawMessage(nil), data...)}
	if wire.Result != nil {
		mapResultV3(assessment, wire.Result)
		return assessment, nil
	}
	mapPayloadV2(assessment, &wire)
	return assessment, nil
}

type wirePayload struct {
	// v3
	Result *wireResultV3 `json:"result"`

	// v2
	HealthAssessment *wireHealthV2         `json:"health_assessment"`
	Suggestions      []wirePlantSuggestion `json:"suggestions"`
	Question         *wireQuestion         `json:"question"`
}

type wireResultV3 struct {
	IsHealthy *struct {
		Binary      bool     `json:"binary"`
		Probability *float64 `json:"probability"`
	} `json:"is_healthy"`
	Disease *struct {
		Suggestions []wireDiseaseSuggestion `json:"suggestions"`
	} `json:"disease"`
	Classification *struct {
		Suggestions []wirePlantSuggestion `json:"suggestions"`
	} `json:"classification"`
	Question *wireQuestion `json:"question"`
}

type wireHealthV2 struct {
	IsHealthy            bool                    `json:"is_healthy"`
	IsHealthyProbability *float64                `json:"is_healthy_probability"`
	Diseases             []wireDiseaseSuggestion `json:"diseases"`
}

type wireDiseaseSuggestion struct {
	Name           string             `json:"name"`
	Probability    float64            `json:"probability"`
	Details        *wireDetails       `json:"details"`
	DiseaseDetails *wireDetails       `json:"disease_details"`
	SimilarImages  []wireSimilarImage `json:"similar_images"`
}

type wireDetails struct {
	Description string        `json:"description"`
	Treatment   treatmentText `json:"treatment"`
}

type wirePlantSuggestion struct {
	Name          string             `json:"name"`
	PlantName     string             `json:"plant_name"`
	Probability   float64            `json:"probability"`
	SimilarImages []wireSimilarImage `json:"similar_images"`
}

type wireSimilarImage struct {
	URL string `json:"url"`
}

type wireQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// treatmentText absorbs the three treatment encodings seen in the wild: a
// single string, an array of strings, or (v2) an object of string arrays
// keyed by treatment kind.
type treatmentText []string

func (t *treatmentText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*t = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			*t = treatmentText{single}
		}
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*t = cleanLines(lines)
		return nil
	}

	var grouped map[string][]string
	if err := json.Unmarshal(data, &grouped); err == nil {
		// Stable order across identical payloads.
		merged := make([]string, 0)
		for _, kind := range []string{"biological", "chemical", "prevention"} {
			merged = append(merged, grouped[kind]...)
			delete(grouped, kind)
		}
		remaining := make([]string, 0, len(grouped))
		for kind := range grouped {
			remaining = append(remaining, kind)
		}
		sort.Strings(remaining)
		for _, kind := range remaining {
			merged = append(merged, grouped[kind]...)
		}
		*t = cleanLines(merged)
		return nil
	}

	// Unknown encoding: treat as absent rather than failing the decode.
	*t = nil
	return nil
}

func cleanLines(lines []string) treatmentText {
	cleaned := make(treatmentText, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

func mapResultV3(assessment *Assessment, result *wireResultV3) {
	if result.IsHealthy != nil {
		assessment.IsHealthy = &HealthFlag{
			Binary:      result.IsHealthy.Binary,
			Probability: result.IsHealthy.Probability,
		}
	}
	if result.Disease != nil {
		assessment.DiseaseSuggestions = mapDiseaseSuggestions(result.Disease.Suggestions)
	}
	if result.Classification != nil {
		assessment.PlantSuggestions = mapPlantSuggestions(result.Classification.Suggestions)
	}
	assessment.Question = mapQuestion(result.Question)
}

func mapPayloadV2(assessment *Assessment, wire *wirePayload) {
	if wire.HealthAssessment != nil {
		assessment.IsHealthy = &HealthFlag{
			Binary:      wire.HealthAssessment.IsHealthy,
			Probability: wire.HealthAssessment.IsHealthyProbability,
		}
		assessment.DiseaseSuggestions = mapDiseaseSuggestions(wire.HealthAssessment.Diseases)
	}
	assessment.PlantSuggestions = mapPlantSuggestions(wire.Suggestions)
	assessment.Question = mapQuestion(wire.Question)
}

func mapDiseaseSuggestions(suggestions []wireDiseaseSuggestion) []DiseaseSuggestion {
	if len(suggestions) == 0 {
		return nil
	}
	mapped := make([]DiseaseSuggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		details := suggestion.Details
		if details == nil {
			details = suggestion.DiseaseDetails
		}
		entry := DiseaseSuggestion{
			Name:          strings.TrimSpace(suggestion.Name),
			Probability:   suggestion.Probability,
			SimilarImages: mapSimilarImages(suggestion.SimilarImages),
		}
		if details != nil {
			entry.Details = &DiseaseDetails{
				Description: strings.TrimSpace(details.Description),
				Treatment:   details.Treatment,
			}
		}
		mapped = append(mapped, entry)
	}
	return mapped
}

func mapPlantSuggestions(suggestions []wirePlantSuggestion) []PlantSuggestion {
	if len(suggestions) == 0 {
		return nil
	}
	mapped := make([]PlantSuggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		name := strings.TrimSpace(suggestion.PlantName)
		if name == "" {
			name = strings.TrimSpace(suggestion.Name)
		}
		mapped = append(mapped, PlantSuggestion{
			PlantName:     name,
			Probability:   suggestion.Probability,
			SimilarImages: mapSimilarImages(suggestion.SimilarImages),
		})
	}
	return mapped
}

func mapSimilarImages(images []wireSimilarImage) []SimilarImage {
	if len(images) == 0 {
		return nil
	}
	mapped := make([]SimilarImage, 0, len(images))
	for _, image := range images {
		url := strings.TrimSpace(image.URL)
		if url == "" {
			continue
		}
		mapped = append(mapped, SimilarImage{URL: url})
	}
	if len(mapped) == 0 {
		return nil
	}
	return mapped
}

func mapQuestion(question *wireQuestion) *FollowUpQuestion {
	if question == nil {
		return nil
	}
	return &FollowUpQuestion{
		Text:    strings.TrimSpace(question.Text),
		Options: question.Options,
	}
}
