package parser

import (
	"strings"

	"fieldsheet/timesheet"
)

// Segmenter turns the classified line stream into discrete entries.
// It holds exactly one piece of state: the entry currently being
// accumulated, if any. The only strong boundary signal in OCR text is
// a roster name followed by a colon, so blocks are anchored on that
// pattern and everything else merges into whatever block is open.
type Segmenter struct {
	current *timesheet.Entry
	entries []timesheet.Entry
}

func NewSegmenter() *Segmenter {
	return &Segmenter{entries: make([]timesheet.Entry, 0, 16)}
}

// Advance feeds one classified line through the state machine.
func (s *Segmenter) Advance(line string, facts Facts) {
	if facts.Worker != "" && strings.Contains(line, ":") {
		s.finalize()
		entry := timesheet.New()
		entry.Worker = facts.Worker
		s.current = &entry
		s.merge(facts)
		return
	}

	if s.current != nil {
		s.merge(facts)
		return
	}

	switch {
	case facts.HasTimeRange():
		entry := timesheet.New()
		s.current = &entry
		s.merge(facts)
	case !facts.Empty():
		entry := timesheet.New()
		s.current = &entry
		s.merge(facts)
	default:
		// Pure noise with no open entry: discarded.
	}
}

// Flush closes any in-progress entry and returns everything segmented
// so far, in input order.
func (s *Segmenter) Flush() []timesheet.Entry {
	s.finalize()
	return s.entries
}

func (s *Segmenter) finalize() {
	if s.current == nil {
		return
	}
	s.entries = append(s.entries, *s.current)
	s.current = nil
}

// merge folds classified fields into the open entry. Scalar fields are
// first-writer-wins; notes accumulate. Helper mentions stay in notes
// for the reviewer instead of being folded into materials.
func (s *Segmenter) merge(facts Facts) {
	entry := s.current

	if entry.Worker == "" && facts.Worker != "" {
		entry.Worker = facts.Worker
	}
	if entry.Date.IsZero() && !facts.Date.IsZero() {
		entry.Date = facts.Date
	}
	if entry.Address == "" && facts.Address != "" {
		entry.Address = facts.Address
	}
	if entry.Unit == "" && facts.Unit != "" {
		entry.Unit = facts.Unit
	}
	if entry.Start < 0 && facts.HasTimeRange() {
		entry.Start = facts.Start
		entry.End = facts.End
	}
	if entry.TotalHours == 0 && facts.StatedHours > 0 {
		entry.TotalHours = facts.StatedHours
	}
	if entry.Materials == 0 && facts.HasMoney {
		entry.Materials = facts.Money
	}
	if facts.HasHelper {
		appendNote(entry, "helper "+timesheet.FormatHours(facts.HelperHours)+"hrs. ")
	}
	if facts.Residual != "" {
		appendNote(entry, facts.Residual)
	}
}

func appendNote(entry *timesheet.Entry, text string) {
	if entry.Notes == "" {
		entry.Notes = text
		return
	}
	entry.Notes = strings.TrimRight(entry.Notes, " ") + " " + text
}
