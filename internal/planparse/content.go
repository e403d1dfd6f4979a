package planparse

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Classifier defaults. Every classifier returns a usable value; these fill
// in when no signal is found.
const (
	DefaultCategory      = "fitness"
	DefaultDurationLabel = "8 weeks"
	DefaultDurationWeeks = 8
	DefaultDifficulty    = "intermediate"
	MinSessionsCount     = 12
	MaxTags              = 5
	MaxDescriptionLen    = 200
	titleCandidateLines  = 15
)

// sportTable is the ordered keyword-vote table for Category. Ties break in
// table order, so more specific sports come first.
var sportTable = []struct {
	name     string
	keywords []string
}{
	{"soccer", []string{"soccer", "football", "striker", "midfielder", "goalkeeper", "dribbling", "pitch"}},
	{"basketball", []string{"basketball", "dribble", "layup", "jump shot", "free throw", "court", "rebound"}},
	{"tennis", []string{"tennis", "forehand", "backhand", "serve", "volley", "racket", "baseline"}},
	{"swimming", []string{"swimming", "freestyle", "backstroke", "breaststroke", "butterfly", "pool", "lap"}},
	{"running", []string{"running", "sprint", "marathon", "jog", "pace", "interval run", "track"}},
	{"cycling", []string{"cycling", "bike", "cadence", "pedal", "saddle"}},
	{"volleyball", []string{"volleyball", "spike", "set", "dig", "block", "net play"}},
	{"boxing", []string{"boxing", "jab", "hook", "uppercut", "sparring", "heavy bag"}},
	{"martial arts", []string{"martial", "karate", "judo", "taekwondo", "grappling", "kata"}},
	{"strength", []string{"strength", "squat", "deadlift", "bench press", "barbell", "weightlifting", "hypertrophy"}},
	{"fitness", []string{"fitness", "cardio", "conditioning", "workout", "exercise"}},
}

// Difficulty keyword tables.
var difficultyTable = []struct {
	level    string
	keywords []string
}{
	{"beginner", []string{"beginner", "novice", "basic", "introductory", "starter", "fundamentals", "easy"}},
	{"intermediate", []string{"intermediate", "moderate", "medium", "developing"}},
	{"advanced", []string{"advanced", "elite", "expert", "professional", "competitive", "intense", "high performance"}},
}

// tagVocabulary is the fixed tag set intersected with document text.
var tagVocabulary = []string{
	"strength", "endurance", "speed", "agility", "conditioning", "technique",
	"tactics", "flexibility", "recovery", "nutrition", "teamwork", "defense",
	"offense", "footwork", "drills",
}

var dayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var (
	weeksPattern  = regexp.MustCompile(`(?i)(\d+)\s*[- ]?\s*weeks?\b`)
	monthsPattern = regexp.MustCompile(`(?i)(\d+)\s*[- ]?\s*months?\b`)
	daysPattern   = regexp.MustCompile(`(?i)(\d+)\s*[- ]?\s*days?\b`)

	sessionCountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*sessions?\b`),
		regexp.MustCompile(`(?i)(\d+)\s*workouts?\b`),
		regexp.MustCompile(`(?i)(\d+)\s*training\s+days?\b`),
		regexp.MustCompile(`(?i)\bsession\s+(\d+)\b`),
		regexp.MustCompile(`(?i)\bweek\s+(\d+)\b`),
		regexp.MustCompile(`(?i)\bday\s+(\d+)\b`),
	}

	titlePattern    = regexp.MustCompile(`(?i)\b(plan|program|training|academy|course|schedule|camp)\b`)
	sentenceEnd     = regexp.MustCompile(`[.!?]\s*$`)
	numericPrefix   = regexp.MustCompile(`^\d+[.)]\s*`)
	bulletPrefix    = regexp.MustCompile(`^[-*•]\s*`)
	objectiveMarker = regexp.MustCompile(`(?i)^(objectives?|goals?|aims?)\s*[:\-]`)
	equipmentMarker = regexp.MustCompile(`(?i)^(equipment|gear|materials?)\s*[:\-]`)
	drillMarker     = regexp.MustCompile(`(?i)\bdrills?\b`)
)

// ExtractTitle picks the first title-like line among the first candidates,
// falling back to the humanized filename.
func ExtractTitle(lines []string, filename string) string {
	limit := titleCandidateLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		clean := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if len(clean) < 8 || len(clean) > 80 {
			continue
		}
		if sentenceEnd.MatchString(clean) {
			continue // sentences are body text, not titles
		}
		if titlePattern.MatchString(clean) {
			return clean
		}
	}
	return humanizeFilename(filename)
}

func humanizeFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Training Plan"
	}
	words := strings.Fields(base)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ExtractCategory votes sport keywords by frequency; ties break in table
// order.
func ExtractCategory(text string) string {
	lower := strings.ToLower(text)
	best := DefaultCategory
	bestScore := 0
	for _, sport := range sportTable {
		score := 0
		for _, kw := range sport.keywords {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best = sport.name
			bestScore = score
		}
	}
	return best
}

// ExtractDurationWeeks finds the program length in weeks. Months convert at
// four weeks each, day counts round up to full weeks.
func ExtractDurationWeeks(text string) int {
	if m := weeksPattern.FindStringSubmatch(text); m != nil {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return n
		}
	}
	if m := monthsPattern.FindStringSubmatch(text); m != nil {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return n * 4
		}
	}
	if m := daysPattern.FindStringSubmatch(text); m != nil {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return (n + 6) / 7
		}
	}
	return DefaultDurationWeeks
}

// DurationLabel renders a week count the way plans display it.
func DurationLabel(weeks int) string {
	if weeks == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", weeks)
}

// ExtractDifficulty votes difficulty keywords by frequency.
func ExtractDifficulty(text string) string {
	lower := strings.ToLower(text)
	best := DefaultDifficulty
	bestScore := 0
	for _, d := range difficultyTable {
		score := 0
		for _, kw := range d.keywords {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best = d.level
			bestScore = score
		}
	}
	return best
}

// ExtractSessionsCount takes the maximum count seen across session/workout/
// training-day patterns, deriving weeks*3 when none is stated. Never below
// MinSessionsCount.
func ExtractSessionsCount(text string, durationWeeks int) int {
	max := 0
	for _, p := range sessionCountPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			if n, _ := strconv.Atoi(m[1]); n > max {
				max = n
			}
		}
	}
	if max == 0 {
		max = durationWeeks * 3
	}
	if max < MinSessionsCount {
		max = MinSessionsCount
	}
	return max
}

// ExtractDescription returns the first one or two sentence-terminated lines
// of at least 50 chars that aren't headers, synthesizing a generic sentence
// when nothing qualifies. Output is capped at MaxDescriptionLen.
func ExtractDescription(lines []string, category string) string {
	var picked []string
	for _, line := range lines {
		if len(picked) == 2 {
			break
		}
		clean := strings.TrimSpace(line)
		if len(clean) < 50 || !sentenceEnd.MatchString(clean) {
			continue
		}
		if isHeaderLine(clean) {
			continue
		}
		picked = append(picked, clean)
	}
	desc := strings.Join(picked, " ")
	if desc == "" {
		desc = fmt.Sprintf("A structured %s training program imported from a document.", category)
	}
	if len(desc) > MaxDescriptionLen {
		desc = desc[:MaxDescriptionLen-3] + "..."
	}
	return desc
}

func isHeaderLine(line string) bool {
	if _, ok := matchWeekHeader(line, ""); ok {
		return true
	}
	_, isDay := matchDayHeader(line)
	return isDay
}

// ExtractTags intersects the fixed vocabulary with the document text,
// prepending the category when absent and capping at MaxTags.
func ExtractTags(text, category string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0, MaxTags)
	for _, tag := range tagVocabulary {
		if strings.Contains(lower, tag) {
			tags = append(tags, tag)
		}
	}
	hasCategory := false
	for _, t := range tags {
		if t == category {
			hasCategory = true
			break
		}
	}
	if !hasCategory {
		tags = append([]string{category}, tags...)
	}
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	return tags
}

// ExtractSchedule scans for day-name occurrences. Any hit means a weekly
// pattern over those days; none means the plan is flexible.
func ExtractSchedule(text string) (pattern string, days []string) {
	lower := strings.ToLower(text)
	for _, day := range dayNames {
		if strings.Contains(lower, day) {
			days = append(days, day)
		}
	}
	if len(days) > 0 {
		return "weekly", days
	}
	return "flexible", nil
}

// List extraction bounds for per-day content.
const maxListItems = 10

// ExtractDrills collects drill-like lines: bulleted items and lines
// mentioning drills, with markers stripped.
func ExtractDrills(lines []string) []string {
	var drills []string
	for _, line := range lines {
		if len(drills) == maxListItems {
			break
		}
		clean := stripListMarkers(line)
		if clean == "" {
			continue
		}
		if bulletPrefix.MatchString(line) || numericPrefix.MatchString(line) || drillMarker.MatchString(line) {
			drills = append(drills, clean)
		}
	}
	return drills
}

// ExtractActivities collects every substantive content line as an activity,
// markers stripped, bounded.
func ExtractActivities(lines []string) []string {
	var activities []string
	for _, line := range lines {
		if len(activities) == maxListItems {
			break
		}
		clean := stripListMarkers(line)
		if len(clean) < 4 {
			continue
		}
		activities = append(activities, clean)
	}
	return activities
}

// ExtractObjectives collects lines announced by objective/goal markers.
func ExtractObjectives(lines []string) []string {
	var objectives []string
	for _, line := range lines {
		if len(objectives) == maxListItems {
			break
		}
		if m := objectiveMarker.FindString(line); m != "" {
			rest := strings.TrimSpace(line[len(m):])
			if rest != "" {
				objectives = append(objectives, rest)
			}
		}
	}
	return objectives
}

// equipmentVocabulary feeds ExtractEquipment alongside the explicit marker.
var equipmentVocabulary = []string{
	"cones", "balls", "ladder", "agility ladder", "jump rope", "weights",
	"dumbbells", "barbell", "resistance bands", "mat", "net", "goals",
	"hurdles", "medicine ball", "kettlebell",
}

// ExtractEquipment collects equipment from marker lines and from vocabulary
// mentions anywhere in the content.
func ExtractEquipment(lines []string) []string {
	seen := make(map[string]bool)
	var equipment []string
	add := func(item string) {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" && !seen[item] && len(equipment) < maxListItems {
			seen[item] = true
			equipment = append(equipment, item)
		}
	}
	for _, line := range lines {
		if m := equipmentMarker.FindString(line); m != "" {
			for _, item := range strings.Split(line[len(m):], ",") {
				add(item)
			}
			continue
		}
		lower := strings.ToLower(line)
		for _, item := range equipmentVocabulary {
			if strings.Contains(lower, item) {
				add(item)
			}
		}
	}
	return equipment
}

// ExtractFocus intersects the tag vocabulary with a block of lines, used as
// week- and day-level focus tags.
func ExtractFocus(lines []string) []string {
	lower := strings.ToLower(strings.Join(lines, " "))
	var focus []string
	for _, tag := range tagVocabulary {
		if len(focus) == MaxTags {
			break
		}
		if strings.Contains(lower, tag) {
			focus = append(focus, tag)
		}
	}
	return focus
}

func stripListMarkers(line string) string {
	clean := bulletPrefix.ReplaceAllString(line, "")
	clean = numericPrefix.ReplaceAllString(clean, "")
	return strings.TrimSpace(clean)
}
