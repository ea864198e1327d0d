package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rowanmaple/cropdoc/internal/models"
	"github.com/rowanmaple/cropdoc/internal/plantid"
)

var ErrInvalidAssessment = errors.New("assessment payload is missing or invalid")

// Fallback texts used when the vendor gives no usable guidance.
const (
	RecommendationHealthy      = "No disease detected. The plant appears healthy; keep up the current care routine."
	RecommendationUnhealthy    = "The plant looks unhealthy but no specific issue could be determined. Retake the photo with better lighting, focused on the affected area."
	RecommendationIdentified   = "The plant species was identified but no health signal was returned. Submit a closer photo of the affected leaves for a disease check."
	RecommendationInconclusive = "Could not identify a specific issue. Retry with a clearer, well-lit photo of the affected plant part."
)

// DiagnosisContext carries the request-side inputs a normalized record is
// attached to. Now stamps the record when non-zero; otherwise the wall
// clock is used, which is the only non-deterministic output field.
type DiagnosisContext struct {
	CropLogID uint
	PlantID   string
	Latitude  *float64
	Longitude *float64
	Now       time.Time
}

type diagnosisSignal int

const (
	signalNone diagnosisSignal = iota
	signalDisease
	signalHealth
	signalIdentification
)

// detectSignal picks the strongest usable signal in the assessment. The
// order is a fixed contract: disease suggestions outrank the bare health
// flag, which outranks species identification. A suggestion list whose top
// entry has no name cannot yield a label, so it is skipped entirely.
func detectSignal(assessment *plantid.Assessment) diagnosisSignal {
	if len(assessment.DiseaseSuggestions) > 0 &&
		strings.TrimSpace(assessment.DiseaseSuggestions[0].Name) != "" {
		return signalDisease
	}
	if assessment.IsHealthy != nil {
		return signalHealth
	}
	if len(assessment.PlantSuggestions) > 0 &&
		strings.TrimSpace(assessment.PlantSuggestions[0].PlantName) != "" {
		return signalIdentification
	}
	return signalNone
}

// NormalizeDiagnosis maps a vendor assessment into a canonical Diagnosis.
// It is a total function over well-formed assessments: missing or partial
// sections degrade through the signal chain instead of failing. The only
// error is a nil assessment.
func NormalizeDiagnosis(assessment *plantid.Assessment, reqContext DiagnosisContext) (models.Diagnosis, error) {
	if assessment == nil {
		return models.Diagnosis{}, ErrInvalidAssessment
	}

	stampedAt := reqContext.Now
	if stampedAt.IsZero() {
		stampedAt = time.Now()
	}

	record := models.Diagnosis{
		CropLogID:       reqContext.CropLogID,
		PlantID:         reqContext.PlantID,
		PestOrDisease:   models.LabelUnknown,
		ConfidenceLevel: 0,
		Recommendations: []string{},
		RelatedImages:   []string{},
		Source:          models.DiagnosisSourcePlantID,
		Latitude:        reqContext.Latitude,
		Longitude:       reqContext.Longitude,
		Raw:             string(assessment.Raw),
		CreatedAt:       stampedAt,
	}

	switch detectSignal(assessment) {
	case signalDisease:
		applyDiseaseSignal(&record, assessment.DiseaseSuggestions)
	case signalHealth:
		applyHealthSignal(&record, assessment.IsHealthy)
	case signalIdentification:
		applyIdentificationSignal(&record, assessment.PlantSuggestions)
	}

	if len(record.Recommendations) == 0 {
		record.Recommendations = append(record.Recommendations, RecommendationInconclusive)
	}

	return record, nil
}

// applyDiseaseSignal labels the record from the top-ranked suggestion.
// Lower-ranked entries contribute their names only as a low-fidelity
// recommendation fallback, and their similar images to the image set.
func applyDiseaseSignal(record *models.Diagnosis, suggestions []plantid.DiseaseSuggestion) {
	top := suggestions[0]
	record.PestOrDisease = strings.TrimSpace(top.Name)
	record.ConfidenceLevel = normalizeProbability(top.Probability)

	record.Recommendations = treatmentRecommendations(top)
	if len(record.Recommendations) == 0 {
		for _, suggestion := range suggestions {
			if name := strings.TrimSpace(suggestion.Name); name != "" {
				record.Recommendations = append(record.Recommendations, name)
			}
		}
	}

	for _, suggestion := range suggestions {
		record.RelatedImages = appendImageURLs(record.RelatedImages, suggestion.SimilarImages)
	}
}

func applyHealthSignal(record *models.Diagnosis, flag *plantid.HealthFlag) {
	if flag.Binary {
		record.PestOrDisease = models.LabelHealthy
		record.ConfidenceLevel = 1
		if flag.Probability != nil {
			record.ConfidenceLevel = normalizeProbability(*flag.Probability)
		}
		record.Recommendations = append(record.Recommendations, RecommendationHealthy)
		return
	}

	record.PestOrDisease = models.LabelUnhealthy
	if flag.Probability != nil {
		record.ConfidenceLevel = normalizeProbability(*flag.Probability)
	}
	record.Recommendations = append(record.Recommendations, RecommendationUnhealthy)
}

func applyIdentificationSignal(record *models.Diagnosis, suggestions []plantid.PlantSuggestion) {
	top := suggestions[0]
	record.PestOrDisease = models.LabelIdentifiedP + strings.TrimSpace(top.PlantName)
	record.ConfidenceLevel = normalizeProbability(top.Probability)
	record.Recommendations = append(record.Recommendations, RecommendationIdentified)
	record.RelatedImages = appendImageURLs(record.RelatedImages, top.SimilarImages)
}

func treatmentRecommendations(suggestion plantid.DiseaseSuggestion) []string {
	recommendations := make([]string, 0)
	if suggestion.Details == nil {
		return recommendations
	}
	for _, line := range suggestion.Details.Treatment {
		if line = strings.TrimSpace(line); line != "" {
			recommendations = append(recommendations, line)
		}
	}
	if len(recommendations) == 0 {
		if description := strings.TrimSpace(suggestion.Details.Description); description != "" {
			recommendations = append(recommendations, description)
		}
	}
	return recommendations
}

// normalizeProbability maps vendor confidence values onto [0, 1]. Some
// vendor revisions report percentages, so anything above 1 is treated as a
// 0-100 value. Negative or NaN input counts as absent.
func normalizeProbability(probability float64) float64 {
	if math.IsNaN(probability) || probability < 0 {
		return 0
	}
	if probability > 1 {
		probability = probability / 100
	}
	if probability > 1 {
		return 1
	}
	return probability
}

func appendImageURLs(urls []string, images []plantid.SimilarImage) []string {
	for _, image := range images {
		url := strings.TrimSpace(image.URL)
		if url == "" || containsString(urls, url) {
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
