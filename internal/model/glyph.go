package model

import (
	"errors"
	"image"
	"time"
)

// Glyph model errors.
var (
	ErrInvalidPattern = errors.New("invalid bit pattern")
	ErrEmptyLabel     = errors.New("label cannot be empty")
)

// DefaultTolerance is the tolerance used when a query does not set one.
const DefaultTolerance = 0.1

// UnrecognizedLabel is returned when no stored pattern matches and training is off.
const UnrecognizedLabel = "?"

// NumericLabels holds every label accepted when only numbers are expected.
// Labels are tested by substring containment, so multi-character labels such as "EL" pass too.
const NumericLabels = "0123456789.,%/:LEVEL"

// CharacterEntry is a label together with every bitmap variant trained for it.
type CharacterEntry struct {
	Label    string       `json:"text"`
	Patterns []BitPattern `json:"patterns"`
}

// TrainingSettings gates the interactive labeling fallback.
type TrainingSettings struct {
	TrainingEnabled bool `json:"isTrainingEnabled"`
}

// MatchQuery is a single glyph classification request.
type MatchQuery struct {
	// Source is the screen image the glyph was cut from. It is only shown to the labeler.
	Source      image.Image
	Pattern     BitPattern
	Tolerance   float64
	OnlyNumbers bool
}

// NewMatchQuery creates a query with the default tolerance.
func NewMatchQuery(pattern BitPattern, source image.Image) MatchQuery {
	return MatchQuery{
		Pattern:   pattern,
		Source:    source,
		Tolerance: DefaultTolerance,
	}
}

// RecognitionStatus describes how a glyph classification ended.
type RecognitionStatus string

// Recognition status constants.
const (
	StatusMatched      RecognitionStatus = "MATCHED"
	StatusUnrecognized RecognitionStatus = "UNRECOGNIZED"
	StatusAborted      RecognitionStatus = "ABORTED"
	StatusSkipped      RecognitionStatus = "SKIPPED"
	StatusTrained      RecognitionStatus = "TRAINED"
)

// Recognition is the outcome of classifying one glyph.
type Recognition struct {
	Label      string
	Status     RecognitionStatus
	Difference float64
}

// Text returns the label in the classic string protocol: the label, "?" when
// unrecognized and "" when skipped. ok is false only when the human aborted training.
func (r Recognition) Text() (text string, ok bool) {
	switch r.Status {
	case StatusAborted:
		return "", false
	case StatusSkipped:
		return "", true
	case StatusUnrecognized:
		return UnrecognizedLabel, true
	default:
		return r.Label, true
	}
}

// LabelAction is the human decision for an unmatched glyph.
type LabelAction string

// Label action constants.
const (
	LabelCancel LabelAction = "cancel"
	LabelSkip   LabelAction = "skip"
	LabelAccept LabelAction = "accept"
)

// LabelResponse is what a labeler returns for a prompt.
type LabelResponse struct {
	Action LabelAction
	Label  string
}

// CancelLabel aborts training.
func CancelLabel() LabelResponse { return LabelResponse{Action: LabelCancel} }

// SkipLabel marks the glyph as not a character.
func SkipLabel() LabelResponse { return LabelResponse{Action: LabelSkip} }

// AcceptLabel labels the glyph. An empty label is treated as a skip.
func AcceptLabel(label string) LabelResponse {
	if label == "" {
		return SkipLabel()
	}
	return LabelResponse{Action: LabelAccept, Label: label}
}

// TrainingEvent records one finished training prompt.
type TrainingEvent struct {
	CreatedAt time.Time
	SessionID string
	Label     string
	Status    RecognitionStatus
	Width     int
	Height    int
}
