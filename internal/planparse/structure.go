// Package planparse turns extracted document text into a week/day training
// structure and infers plan attributes from it. Everything here is a
// deterministic heuristic over lines: real documents label their weeks and
// days inconsistently, so the parser favors tolerant pattern tables over
// strict grammar.
package planparse

import (
	"regexp"
	"strconv"
	"strings"
)

// DayBlock is one detected training day inside a week.
type DayBlock struct {
	Day      string   // matched day name or session label
	Duration string   // raw duration phrase, "" when absent
	Content  []string // lines captured under this day
}

// WeekBlock is one detected planning week.
type WeekBlock struct {
	Title   string
	Number  int
	Days    []DayBlock
	Content []string // lines captured at week level, outside any day
}

// DocumentStructure is the parser output.
type DocumentStructure struct {
	Weeks []WeekBlock
}

// Explicit week-header patterns, tried in order.
var weekHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^training\s+week\s+(\d+)\b`),
	regexp.MustCompile(`(?i)^week\s+(\d+)\b`),
	regexp.MustCompile(`(?i)^session\s+(\d+)\s*[:\-]`),
	regexp.MustCompile(`(?i)^day\s+(\d+)\s*[:\-]`),
}

// weekIndicator feeds the secondary header heuristic.
var weekIndicator = regexp.MustCompile(`(?i)\b(week|phase|stage|block|cycle)\b`)

// dayHeaderPattern matches a day name optionally followed by a duration,
// e.g. "Monday 90 minutes" or "Wednesday - 2 hours warm up".
var dayHeaderPattern = regexp.MustCompile(
	`(?i)^(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b[\s:\-]*(.*)$`)

// sessionPhrasePattern is the secondary day detector for generic
// training-unit phrasing without a day name.
var sessionPhrasePattern = regexp.MustCompile(
	`(?i)^(morning|afternoon|evening)?\s*(training|practice|workout)\s*(session)?\s*[:\-]`)

// durationPhrase captures "90 minutes", "1.5 hours", "45 min" anywhere in a line.
var durationPhrase = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(minutes?|mins?|hours?|hrs?)\b`)

// rawWeekScan is the independent second-pass segmenter.
var rawWeekScan = regexp.MustCompile(`(?i)(?:^|\n)\s*(?:training\s+)?week\s+(\d+)\b`)

const (
	shortHeaderMax     = 50 // secondary week heuristic: header lines are short
	substantiveLineMin = 20 // and must introduce real content
)

// ParseStructure segments text into weeks and days with a single
// left-to-right scan, then falls back to a raw week-number scan when the
// structural pass clearly under-segmented the document.
func ParseStructure(text string) DocumentStructure {
	structural := scanStructure(text)

	// Strategy selection: when the structural pass found notably fewer
	// weeks than the raw text mentions, the raw segmentation wins. The two
	// passes are compared by week count only, never merged.
	maxMentioned := maxWeekNumberMentioned(text)
	threshold := (maxMentioned + 1) / 2
	if maxMentioned > 0 && len(structural.Weeks) < threshold {
		alternative := scanRawWeeks(text)
		if len(alternative.Weeks) > len(structural.Weeks) {
			return alternative
		}
	}
	return structural
}

// scanStructure is the primary structural pass.
func scanStructure(text string) DocumentStructure {
	lines := nonEmptyLines(text)

	var result DocumentStructure
	var week *WeekBlock
	var day *DayBlock
	weekCount := 0

	closeDay := func() {
		if day != nil && week != nil {
			week.Days = append(week.Days, *day)
		}
		day = nil
	}
	closeWeek := func() {
		closeDay()
		if week != nil {
			result.Weeks = append(result.Weeks, *week)
		}
		week = nil
	}

	for i, line := range lines {
		var next string
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		if num, ok := matchWeekHeader(line, next); ok {
			closeWeek()
			weekCount++
			if num == 0 {
				num = weekCount
			}
			week = &WeekBlock{Title: line, Number: num}
			continue
		}

		if d, ok := matchDayHeader(line); ok && week != nil {
			closeDay()
			day = &d
			continue
		}

		switch {
		case day != nil:
			day.Content = append(day.Content, line)
		case week != nil:
			week.Content = append(week.Content, line)
		}
	}
	closeWeek()
	return result
}

// matchWeekHeader tries the explicit patterns, then the secondary
// short-line-followed-by-content heuristic.
func matchWeekHeader(line, next string) (int, bool) {
	for _, p := range weekHeaderPatterns {
		if m := p.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n, true
		}
	}
	// Secondary heuristic: a short line carrying a week-indicator token,
	// immediately followed by a substantive line. Real documents title
	// their weeks things like "Foundation Phase" or "Build-up block two".
	if len(line) < shortHeaderMax && weekIndicator.MatchString(line) && len(next) > substantiveLineMin {
		return 0, true
	}
	return 0, false
}

// matchDayHeader recognizes a day-name header or generic session phrasing.
func matchDayHeader(line string) (DayBlock, bool) {
	if m := dayHeaderPattern.FindStringSubmatch(line); m != nil {
		d := DayBlock{Day: strings.ToLower(m[1])}
		if dur := durationPhrase.FindString(m[2]); dur != "" {
			d.Duration = dur
		}
		// Anything after the day name beyond the duration is content.
		if rest := strings.TrimSpace(m[2]); rest != "" {
			d.Content = append(d.Content, rest)
		}
		return d, true
	}
	if sessionPhrasePattern.MatchString(line) && len(line) < shortHeaderMax {
		d := DayBlock{Day: "session"}
		if dur := durationPhrase.FindString(line); dur != "" {
			d.Duration = dur
		}
		return d, true
	}
	return DayBlock{}, false
}

// scanRawWeeks segments purely on "Week N" occurrences in the raw text.
func scanRawWeeks(text string) DocumentStructure {
	matches := rawWeekScan.FindAllStringSubmatchIndex(text, -1)
	var result DocumentStructure
	for i, m := range matches {
		start := m[0]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		segment := text[start:end]
		lines := nonEmptyLines(segment)
		if len(lines) == 0 {
			continue
		}
		num, _ := strconv.Atoi(text[m[2]:m[3]])
		week := WeekBlock{Title: lines[0], Number: num}

		// Day detection still applies inside each raw segment.
		var day *DayBlock
		for _, line := range lines[1:] {
			if d, ok := matchDayHeader(line); ok {
				if day != nil {
					week.Days = append(week.Days, *day)
				}
				day = &d
				continue
			}
			if day != nil {
				day.Content = append(day.Content, line)
			} else {
				week.Content = append(week.Content, line)
			}
		}
		if day != nil {
			week.Days = append(week.Days, *day)
		}
		result.Weeks = append(result.Weeks, week)
	}
	return result
}

// maxWeekNumberMentioned returns the highest week number the raw text
// mentions, 0 when none.
func maxWeekNumberMentioned(text string) int {
	max := 0
	for _, m := range rawWeekScan.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max
}

// Lines splits text into trimmed, non-empty lines, the form every
// classifier consumes.
func Lines(text string) []string {
	return nonEmptyLines(text)
}

// nonEmptyLines splits text into trimmed, non-empty lines.
func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

// ParseDurationMinutes converts a duration phrase to whole minutes.
// Unparsable input returns 0; callers apply their own default.
func ParseDurationMinutes(phrase string) int {
	m := durationPhrase.FindStringSubmatch(phrase)
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return 0
	}
	unit := strings.ToLower(m[2])
	if strings.HasPrefix(unit, "h") {
		return int(value * 60)
	}
	return int(value)
}
