package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WholeWeekDay is the DayName sentinel for a session that spans the entire
// week because no day-level structure was detected in the source document.
const WholeWeekDay = "full-week"

// DefaultSessionMinutes is used when a session's duration is documented but
// unparsable. Durations are never zero.
const DefaultSessionMinutes = 60

// DailySession is one concrete training unit inside a week.
type DailySession struct {
	WeekNumber      int      `bson:"weekNumber" json:"weekNumber"`
	DayNumber       int      `bson:"dayNumber" json:"dayNumber"`
	Title           string   `bson:"title" json:"title"`
	DayName         string   `bson:"dayName" json:"dayName"`
	Time            string   `bson:"time,omitempty" json:"time,omitempty"`
	DurationMinutes int      `bson:"durationMinutes" json:"durationMinutes"`
	Activities      []string `bson:"activities,omitempty" json:"activities,omitempty"`
	Drills          []string `bson:"drills,omitempty" json:"drills,omitempty"`
	Objectives      []string `bson:"objectives,omitempty" json:"objectives,omitempty"`
	Equipment       []string `bson:"equipment,omitempty" json:"equipment,omitempty"`
	RawContent      string   `bson:"rawContent,omitempty" json:"rawContent,omitempty"`
	Focus           []string `bson:"focus,omitempty" json:"focus,omitempty"`
}

// WeekSession is one planning week. TotalDuration always equals the sum of
// its daily sessions' durations; a week with no detected day structure gets
// a single synthetic full-week session so the invariant holds.
type WeekSession struct {
	WeekNumber    int            `bson:"weekNumber" json:"weekNumber"`
	Title         string         `bson:"title" json:"title"`
	Description   string         `bson:"description,omitempty" json:"description,omitempty"`
	Focus         []string       `bson:"focus,omitempty" json:"focus,omitempty"`
	Notes         string         `bson:"notes,omitempty" json:"notes,omitempty"`
	TotalDuration int            `bson:"totalDuration" json:"totalDuration"`
	DailySessions []DailySession `bson:"dailySessions" json:"dailySessions"`
}

// ScheduleSummary describes when the plan's sessions happen. Pattern is
// "weekly" when day names were found in the document, "flexible" otherwise.
type ScheduleSummary struct {
	Pattern string   `bson:"pattern" json:"pattern"`
	Days    []string `bson:"days,omitempty" json:"days,omitempty"`
}

// Creator records who triggered the processing that produced a plan.
type Creator struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Name   string             `bson:"name" json:"name"`
}

// TrainingPlan is the structured multi-week schedule derived from one
// document. Exactly one non-reprocessed plan exists per source document;
// reprocessing bumps Version instead of creating a duplicate.
type TrainingPlan struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	SourceDocumentID primitive.ObjectID `bson:"sourceDocumentId" json:"sourceDocumentId"`
	Category         string             `bson:"category" json:"category"`
	DurationLabel    string             `bson:"durationLabel" json:"durationLabel"`
	Difficulty       string             `bson:"difficulty" json:"difficulty"`
	SessionsCount    int                `bson:"sessionsCount" json:"sessionsCount"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Tags             []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Weeks            []WeekSession      `bson:"weeks" json:"weeks"`
	Schedule         ScheduleSummary    `bson:"schedule" json:"schedule"`
	CreatedBy        Creator            `bson:"createdBy" json:"createdBy"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version          int                `bson:"version" json:"version"`
	Reprocessed      bool               `bson:"reprocessed" json:"reprocessed"`
}

// AcademyName is the plan title under its alternate name; the two are used
// interchangeably by consumers.
func (p *TrainingPlan) AcademyName() string { return p.Title }
