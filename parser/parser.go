package parser

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"fieldsheet/config"
	"fieldsheet/timesheet"
)

// ErrEmptyInput is returned when the input text carries nothing to parse.
var ErrEmptyInput = errors.New("input text is empty")

// ErrBinaryInput is returned when the input is not valid text.
var ErrBinaryInput = errors.New("input is not valid text")

// Parser converts raw OCR or freeform text into candidate timesheet
// entries. It is safe to reuse across inputs.
type Parser struct {
	classifier *Classifier
	today      time.Time
	log        *zap.Logger
}

// New builds a Parser from the roster in cfg. The today value anchors
// weekday and missing-date resolution, which keeps runs reproducible
// in tests.
func New(cfg config.Config, today time.Time, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		classifier: NewClassifier(cfg.RosterNames(), today),
		today:      today,
		log:        log,
	}
}

// Parse segments and normalizes the input text. The only error cases
// are empty and non-text input; every extraction ambiguity degrades to
// an absent field on the entry instead.
func (p *Parser) Parse(text string) ([]timesheet.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if !utf8.ValidString(text) {
		return nil, ErrBinaryInput
	}

	segmenter := NewSegmenter()
	lines := 0
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}
		lines++
		segmenter.Advance(line, p.classifier.Classify(line))
	}

	entries := Normalize(segmenter.Flush(), p.today)
	p.log.Debug("parsed input text",
		zap.Int("lines", lines),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}
