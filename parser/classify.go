package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"fieldsheet/internal/timeutil"
	"fieldsheet/timesheet"
)

// Facts is the classification of a single line: every field the line
// was able to yield, plus the residual text left over once all matched
// tokens are removed. Classification is pure; the same line always
// produces the same Facts.
type Facts struct {
	Worker      string
	Date        time.Time
	Start       int
	End         int
	StatedHours float64
	Money       float64
	HasMoney    bool
	HelperHours float64
	HasHelper   bool
	Address     string
	Unit        string
	Residual    string
}

// Empty reports whether the line yielded nothing usable (pure noise).
func (f Facts) Empty() bool {
	return f.Worker == "" && f.Date.IsZero() && f.Start < 0 &&
		f.StatedHours == 0 && !f.HasMoney && !f.HasHelper &&
		f.Address == "" && f.Unit == ""
}

// HasTimeRange reports whether the line carried a start/end pair.
func (f Facts) HasTimeRange() bool {
	return f.Start >= 0 && f.End >= 0
}

var (
	timeRangeRe = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)?(?:\s*[-\x{2013}\x{2014}]\s*|\s+to\s+)(\d{1,2}):(\d{2})\s*(am|pm)?`)
	hoursRangeRe = regexp.MustCompile(`(?i)\bhours?\s*:\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?(?:\s*[-\x{2013}\x{2014}]\s*|\s+to\s+)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	startStopRe  = regexp.MustCompile(`(?i)\bstarted\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b.*?\bstopped\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	monthDateRe = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?\b`)
	weekdayRe   = regexp.MustCompile(`(?i)\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)

	dollarRe       = regexp.MustCompile(`\$\s*(\d+(?:\.\d{1,2})?)`)
	keywordMoneyRe = regexp.MustCompile(`(?i)\b(?:gas|materials?|helper|paid|cost|charge|fee)\b[^0-9$]{0,12}(\d+(?:\.\d{1,2})?)`)
	helperRe       = regexp.MustCompile(`(?i)\bhelper\s+(\d{1,2}(?:\.\d{1,2})?)\s*hrs?\b`)
	statedHoursRe  = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d{1,2})?)\s*(?:hrs?|hours)\b`)

	unitRe     = regexp.MustCompile(`(?i)\b(?:unit|apt|apartment|suite|ste)\.?\s*#?\s*([0-9][0-9a-z-]*|[a-z])\b|#\s*([0-9]+[a-z]?)\b`)
	phoneRe    = regexp.MustCompile(`\(?\d{3}\)?[-. ]\d{3}[-. ]\d{4}`)
	leadNumRe  = regexp.MustCompile(`\b(\d{1,5})\s+([A-Za-z]\w{2,})`)
	wordRe     = regexp.MustCompile(`[A-Za-z][\w.']*`)
	timeOnlyRe = regexp.MustCompile(`(?i)^\s*(?:\d{1,2}:\d{2})?\s*(?:am|pm)?\s*$`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

var streetKeywords = map[string]struct{}{
	"st": {}, "street": {}, "ave": {}, "avenue": {}, "rd": {}, "road": {},
	"dr": {}, "drive": {}, "ln": {}, "lane": {}, "blvd": {}, "boulevard": {},
	"ct": {}, "court": {}, "pl": {}, "place": {}, "way": {}, "ter": {},
	"terrace": {}, "cir": {}, "circle": {}, "hwy": {}, "highway": {},
	"pkwy": {}, "parkway": {},
}

type rosterPattern struct {
	name    string
	pattern *regexp.Regexp
}

// Classifier detects fields on a single line of noisy text. Build one
// per parse run: the roster comes from configuration and "today"
// anchors weekday resolution.
type Classifier struct {
	roster []rosterPattern
	today  time.Time
}

func NewClassifier(roster []string, today time.Time) *Classifier {
	patterns := make([]rosterPattern, 0, len(roster))
	for _, name := range roster {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		patterns = append(patterns, rosterPattern{
			name: trimmed,
			// A colon directly after the name belongs to the entry
			// boundary, not to the notes.
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(trimmed) + `\b\s*:?`),
		})
	}
	return &Classifier{roster: patterns, today: today}
}

// Classify extracts every recognizable field from one line. Matched
// tokens are consumed in priority order so they cannot be claimed
// twice; whatever survives becomes the residual for notes.
func (c *Classifier) Classify(line string) Facts {
	facts := Facts{Start: timesheet.NoTime, End: timesheet.NoTime}
	rest := line

	for _, entry := range c.roster {
		if loc := entry.pattern.FindStringIndex(rest); loc != nil {
			facts.Worker = entry.name
			rest = cutSpan(rest, loc)
			break
		}
	}

	rest = c.extractTimeRange(rest, &facts)
	rest = c.extractDate(rest, &facts)
	rest = extractHelper(rest, &facts)
	rest = extractMoney(rest, &facts)
	rest = extractStatedHours(rest, &facts)
	rest = extractUnit(rest, &facts)
	rest = c.extractAddress(line, rest, &facts)

	facts.Residual = tidyResidual(rest)
	return facts
}

func (c *Classifier) extractTimeRange(rest string, facts *Facts) string {
	for _, pattern := range []*regexp.Regexp{hoursRangeRe, timeRangeRe, startStopRe} {
		m := pattern.FindStringSubmatchIndex(rest)
		if m == nil {
			continue
		}
		start := clockMinutes(group(rest, m, 1), group(rest, m, 2), group(rest, m, 3))
		end := clockMinutes(group(rest, m, 4), group(rest, m, 5), group(rest, m, 6))
		if start < 0 || end < 0 {
			continue
		}
		// "9:00 - 5:30" almost always means an afternoon end; bump a
		// meridiem-free end forward when it would otherwise precede
		// the start within the same morning.
		if group(rest, m, 6) == "" && end < start && end+12*60 > start {
			end += 12 * 60
		}
		facts.Start = start
		facts.End = end % (24 * 60)
		return cutSpan(rest, m[0:2])
	}
	return rest
}

func (c *Classifier) extractDate(rest string, facts *Facts) string {
	if m := slashDateRe.FindStringSubmatchIndex(rest); m != nil {
		month, _ := strconv.Atoi(group(rest, m, 1))
		day, _ := strconv.Atoi(group(rest, m, 2))
		year := c.today.Year()
		if raw := group(rest, m, 3); raw != "" {
			year, _ = strconv.Atoi(raw)
			if year < 100 {
				year += 2000
			}
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			facts.Date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return cutSpan(rest, m[0:2])
		}
	}

	if m := monthDateRe.FindStringSubmatchIndex(rest); m != nil {
		prefix := strings.ToLower(group(rest, m, 1))
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
		month, ok := monthsByPrefix[prefix]
		day, _ := strconv.Atoi(group(rest, m, 2))
		if ok && day >= 1 && day <= 31 {
			year := c.today.Year()
			if raw := group(rest, m, 3); raw != "" {
				year, _ = strconv.Atoi(raw)
			}
			facts.Date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			return cutSpan(rest, m[0:2])
		}
	}

	if m := weekdayRe.FindStringSubmatchIndex(rest); m != nil {
		weekday := weekdaysByName[strings.ToLower(group(rest, m, 1))]
		resolved := timeutil.MostRecentWeekday(c.today, weekday)
		facts.Date = time.Date(resolved.Year(), resolved.Month(), resolved.Day(), 0, 0, 0, 0, time.UTC)
		return cutSpan(rest, m[0:2])
	}

	return rest
}

func extractHelper(rest string, facts *Facts) string {
	m := helperRe.FindStringSubmatchIndex(rest)
	if m == nil {
		return rest
	}
	hours, err := strconv.ParseFloat(group(rest, m, 1), 64)
	if err != nil {
		return rest
	}
	facts.HelperHours = hours
	facts.HasHelper = true
	return cutSpan(rest, m[0:2])
}

func extractMoney(rest string, facts *Facts) string {
	amount, span, ok := findMoney(rest)
	if !ok {
		return rest
	}
	facts.Money = amount
	facts.HasMoney = true
	return cutSpan(rest, span)
}

// findMoney prefers a $-prefixed amount, falling back to an amount
// introduced by a spending keyword. Amounts that are really time
// tokens, either H:MM or an hour count, are rejected outright.
func findMoney(text string) (float64, []int, bool) {
	if m := dollarRe.FindStringSubmatchIndex(text); m != nil {
		if amount, err := strconv.ParseFloat(group(text, m, 1), 64); err == nil {
			return amount, m[0:2], true
		}
	}

	for _, m := range keywordMoneyRe.FindAllStringSubmatchIndex(text, -1) {
		numStart, numEnd := m[2], m[3]
		if partOfClockToken(text, numStart, numEnd) || hoursToken(text, numEnd) {
			continue
		}
		amount, err := strconv.ParseFloat(text[numStart:numEnd], 64)
		if err != nil {
			continue
		}
		return amount, []int{m[0], numEnd}, true
	}
	return 0, nil, false
}

var hoursSuffixRe = regexp.MustCompile(`(?i)^\s*(?:hrs?|hours)\b`)

// hoursToken reports whether the number ending at end is an hour count
// ("3 hrs"), which reads as a duration rather than money.
func hoursToken(text string, end int) bool {
	return hoursSuffixRe.MatchString(text[end:])
}

func partOfClockToken(text string, start, end int) bool {
	if start > 0 && text[start-1] == ':' {
		return true
	}
	if end < len(text) && text[end] == ':' {
		return true
	}
	return false
}

func extractStatedHours(rest string, facts *Facts) string {
	m := statedHoursRe.FindStringSubmatchIndex(rest)
	if m == nil {
		return rest
	}
	if partOfClockToken(rest, m[2], m[3]) {
		return rest
	}
	hours, err := strconv.ParseFloat(group(rest, m, 1), 64)
	if err != nil {
		return rest
	}
	facts.StatedHours = timeutil.RoundQuarterHours(hours)
	return cutSpan(rest, m[0:2])
}

func extractUnit(rest string, facts *Facts) string {
	m := unitRe.FindStringSubmatchIndex(rest)
	if m == nil {
		return rest
	}
	unit := group(rest, m, 1)
	if unit == "" {
		unit = group(rest, m, 2)
	}
	if unit == "" {
		return rest
	}
	facts.Unit = strings.ToUpper(unit)
	return cutSpan(rest, m[0:2])
}

// extractAddress applies the address heuristics in priority order:
// a leading street number, a street-type keyword, then a phone-shaped
// token. Lines that are nothing but a time token never qualify.
func (c *Classifier) extractAddress(line, rest string, facts *Facts) string {
	if timeOnlyRe.MatchString(line) {
		return rest
	}

	// Phone digits would fool the street-number rule, so claim any
	// phone-shaped token up front and only fall back to it when no
	// street form is present.
	phoneToken := ""
	if span := phoneRe.FindStringIndex(rest); span != nil {
		phoneToken = strings.TrimSpace(rest[span[0]:span[1]])
		rest = cutSpan(rest, span)
	}

	if addr, span, ok := streetNumberAddress(rest); ok {
		facts.Address = addr
		return cutSpan(rest, span)
	}
	if addr, span, ok := streetKeywordAddress(rest); ok {
		facts.Address = addr
		return cutSpan(rest, span)
	}
	facts.Address = phoneToken
	return rest
}

// streetNumberAddress captures "<number> <words>" and trims the word
// run: through the first street-type keyword if one appears within the
// next few words, otherwise just the first word. OCR notes rarely
// separate the address from the free text that follows it, so taking
// everything after the number would swallow the notes.
func streetNumberAddress(rest string) (string, []int, bool) {
	m := leadNumRe.FindStringSubmatchIndex(rest)
	if m == nil {
		return "", nil, false
	}
	numStart, numEnd := m[2], m[3]
	if partOfClockToken(rest, numStart, numEnd) {
		return "", nil, false
	}

	tail := rest[m[4]:]
	words := wordRe.FindAllStringIndex(tail, 4)
	keep := words[0][1]
	for _, w := range words {
		if _, ok := streetKeywords[normalizeStreetWord(tail[w[0]:w[1]])]; ok {
			keep = w[1]
			break
		}
	}

	span := []int{numStart, m[4] + keep}
	addr := strings.Join(strings.Fields(rest[span[0]:span[1]]), " ")
	return addr, span, true
}

// Street names are capitalized; keeping the name part case-sensitive
// stops filler words ("at", "over") from being swallowed into the
// address.
var streetPhraseRe = regexp.MustCompile(`\b((?:[A-Z][\w.']*\s+){1,2}(?i:st|street|ave|avenue|rd|road|dr|drive|ln|lane|blvd|boulevard|ct|court|pl|place|way|ter|terrace|cir|circle|hwy|highway|pkwy|parkway))\.?\b`)

func streetKeywordAddress(rest string) (string, []int, bool) {
	m := streetPhraseRe.FindStringSubmatchIndex(rest)
	if m == nil {
		return "", nil, false
	}
	addr := strings.Join(strings.Fields(rest[m[2]:m[3]]), " ")
	return addr, m[0:2], true
}

func normalizeStreetWord(word string) string {
	return strings.TrimSuffix(strings.ToLower(word), ".")
}

func clockMinutes(hourRaw, minuteRaw, meridiem string) int {
	hour, err := strconv.Atoi(hourRaw)
	if err != nil || hour < 0 || hour > 23 {
		return -1
	}
	minute := 0
	if minuteRaw != "" {
		minute, err = strconv.Atoi(minuteRaw)
		if err != nil || minute > 59 {
			return -1
		}
	}
	switch strings.ToLower(meridiem) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour*60 + minute
}

func group(text string, m []int, index int) string {
	start, end := m[2*index], m[2*index+1]
	if start < 0 {
		return ""
	}
	return text[start:end]
}

func cutSpan(text string, span []int) string {
	return text[:span[0]] + " " + text[span[1]:]
}

func tidyResidual(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	return strings.Trim(collapsed, " -,.;:")
}
