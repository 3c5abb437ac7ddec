package allocate

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"fieldsheet/config"
	"fieldsheet/internal/timeutil"
	"fieldsheet/timesheet"
	"fieldsheet/travel"
)

const minutesPerDay = 24 * 60

// Engine distributes a day's total hours across the stops a worker
// logged without individual durations. Groups are (worker, date);
// each group is allocated independently.
type Engine struct {
	cfg       config.Config
	estimator travel.Estimator
	keywords  *regexp.Regexp
	log       *zap.Logger
}

// New builds an Engine. A nil estimator means every group uses the
// flat travel buffer between stops.
func New(cfg config.Config, estimator travel.Estimator, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		estimator: estimator,
		keywords:  compileKeywords(cfg.Allocation.ComplexityKeywords),
		log:       log,
	}
}

func compileKeywords(keywords []string) *regexp.Regexp {
	quoted := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		trimmed := strings.TrimSpace(keyword)
		if trimmed == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(trimmed))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Allocate processes every (worker, date) group in first-appearance
// order. Travel provider failures and cancellation degrade a group to
// the flat-buffer heuristic; no group is ever emitted half-allocated.
func (e *Engine) Allocate(ctx context.Context, entries []timesheet.Entry) []timesheet.Entry {
	keys := make([]string, 0, len(entries))
	groups := make(map[string][]timesheet.Entry, len(entries))
	for _, entry := range entries {
		key := entry.GroupKey()
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], entry)
	}

	result := make([]timesheet.Entry, 0, len(entries))
	for _, key := range keys {
		result = append(result, e.allocateGroup(ctx, groups[key])...)
	}
	return result
}

func (e *Engine) allocateGroup(ctx context.Context, rows []timesheet.Entry) []timesheet.Entry {
	var timed, stated, targets []int
	for i := range rows {
		switch {
		case rows[i].HasTimes():
			timed = append(timed, i)
		case rows[i].TotalHours > 0:
			stated = append(stated, i)
		default:
			targets = append(targets, i)
		}
	}

	for _, i := range timed {
		if rows[i].TotalHours == 0 {
			span := timeutil.SpanMinutes(rows[i].Start, rows[i].End)
			rows[i].TotalHours = float64(timeutil.RoundQuarterMinutes(span)) / 60
		}
	}

	// Every row already has a usable duration: nothing to distribute.
	if len(targets) == 0 {
		return rows
	}

	dayTotal, statedTotal := e.dayTotal(rows, timed, &stated, &targets)

	fixedHours := 0.0
	for _, i := range timed {
		fixedHours += rows[i].TotalHours
	}
	for _, i := range stated {
		fixedHours += rows[i].TotalHours
	}
	if statedTotal && fixedHours > dayTotal+0.5 {
		e.log.Warn("stated day total conflicts with summed row hours",
			zap.String("worker", rows[targets[0]].Worker),
			zap.String("date", rows[targets[0]].DateString()),
			zap.Float64("stated_total", dayTotal),
			zap.Float64("fixed_hours", fixedHours),
		)
	}

	remainderMinutes := int(math.Round(math.Max(0, dayTotal-fixedHours) * 60))

	weights := make([]int, len(targets))
	weightSum := 0
	for idx, i := range targets {
		weights[idx] = e.complexityWeight(rows[i])
		weightSum += weights[idx]
	}

	addresses := make([]string, len(targets))
	for idx, i := range targets {
		addresses[idx] = rows[i].Address
	}
	legs := e.travelLegs(ctx, addresses, rows[targets[0]])

	travelMinutes := 0
	for _, leg := range legs {
		travelMinutes += leg
	}
	availableMinutes := remainderMinutes - travelMinutes
	if availableMinutes < 0 {
		availableMinutes = 0
	}

	cursor := e.startCursor(rows, timed)
	for idx, i := range targets {
		share := int(math.Round(float64(weights[idx]) / float64(weightSum) * float64(availableMinutes)))

		rows[i].Start = cursor % minutesPerDay
		rows[i].End = (cursor + share) % minutesPerDay
		rows[i].TotalHours = float64(timeutil.RoundQuarterMinutes(share)) / 60

		advance := share
		if idx < len(legs) {
			advance += legs[idx]
		}
		cursor = timeutil.RoundQuarterMinutes(cursor + advance)
	}

	// Fixed rows keep their place in input order; targets follow with
	// their newly assigned times.
	isTarget := make(map[int]bool, len(targets))
	for _, i := range targets {
		isTarget[i] = true
	}
	result := make([]timesheet.Entry, 0, len(rows))
	for i := range rows {
		if !isTarget[i] {
			result = append(result, rows[i])
		}
	}
	for _, i := range targets {
		result = append(result, rows[i])
	}
	return result
}

var noteTotalRe = regexp.MustCompile(`(?i)\b(?:day\s*)?total\b[^0-9]{0,10}(\d+(?:\.\d+)?)`)

// dayTotal resolves how many hours the whole group covers, in priority
// order. A single stated figure in a multi-stop day reads as the day's
// aggregate rather than that stop's own duration, so the row carrying
// it rejoins the targets. The second return reports whether the total
// came from a stated figure (used for the discrepancy warning).
func (e *Engine) dayTotal(rows []timesheet.Entry, timed []int, stated, targets *[]int) (float64, bool) {
	switch {
	case len(*stated) == 1:
		i := (*stated)[0]
		total := rows[i].TotalHours
		rows[i].TotalHours = 0
		*targets = insertInOrder(*targets, i)
		*stated = nil
		return total, true
	case len(*stated) > 1:
		total := 0.0
		for _, i := range *stated {
			total += rows[i].TotalHours
		}
		return total, true
	}

	for i := range rows {
		if m := noteTotalRe.FindStringSubmatch(rows[i].Notes); m != nil {
			if total := parsePositiveFloat(m[1]); total > 0 {
				return total, true
			}
		}
	}

	if len(timed) > 0 {
		total := 0.0
		for _, i := range timed {
			total += rows[i].TotalHours
		}
		return total, false
	}

	return e.cfg.Allocation.DefaultDayHours, false
}

// complexityWeight is 1 plus one per keyword occurrence in the row's
// address and notes text; hits are unbounded.
func (e *Engine) complexityWeight(row timesheet.Entry) int {
	weight := 1
	if e.keywords == nil {
		return weight
	}
	text := row.Address + " " + row.Notes
	return weight + len(e.keywords.FindAllStringIndex(text, -1))
}

func (e *Engine) travelLegs(ctx context.Context, addresses []string, sample timesheet.Entry) []int {
	if len(addresses) < 2 {
		return nil
	}

	flat := func() []int {
		legs, _ := travel.FlatEstimator{Minutes: e.cfg.Allocation.TravelBufferMinutes}.Legs(ctx, addresses)
		return legs
	}

	if e.estimator == nil {
		return flat()
	}
	if err := ctx.Err(); err != nil {
		e.log.Warn("allocation cancelled before travel lookup, using flat buffer",
			zap.String("worker", sample.Worker),
			zap.String("date", sample.DateString()),
			zap.Error(err),
		)
		return flat()
	}

	legs, err := e.estimator.Legs(ctx, addresses)
	if err != nil || len(legs) != len(addresses)-1 {
		e.log.Warn("travel estimate failed, using flat buffer",
			zap.String("worker", sample.Worker),
			zap.String("date", sample.DateString()),
			zap.Error(err),
		)
		return flat()
	}
	return legs
}

// startCursor begins at the earliest fixed row's start, or the
// configured workday start when no row has times.
func (e *Engine) startCursor(rows []timesheet.Entry, timed []int) int {
	earliest := -1
	for _, i := range timed {
		if earliest < 0 || rows[i].Start < earliest {
			earliest = rows[i].Start
		}
	}
	if earliest >= 0 {
		return earliest
	}
	return e.cfg.WorkdayStartMinutes()
}

func insertInOrder(indexes []int, value int) []int {
	for pos, existing := range indexes {
		if value < existing {
			out := append([]int{}, indexes[:pos]...)
			out = append(out, value)
			return append(out, indexes[pos:]...)
		}
	}
	return append(indexes, value)
}

func parsePositiveFloat(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
