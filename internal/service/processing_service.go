package service

import (
	"alcyxob/traindoc/internal/domain"
	"alcyxob/traindoc/internal/enhance"
	"alcyxob/traindoc/internal/extractor"
	"alcyxob/traindoc/internal/planparse"
	"alcyxob/traindoc/internal/repository"
	"alcyxob/traindoc/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxRawContentLen bounds the verbatim text captured per daily session.
const maxRawContentLen = 500

// ProcessingError is the only error shape the processing entry point
// propagates: a human-readable message plus remediation suggestions.
type ProcessingError struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Err         error    `json:"-"`
}

func (e *ProcessingError) Error() string { return e.Message }
func (e *ProcessingError) Unwrap() error { return e.Err }

// ProcessingService turns stored documents into training plans.
type ProcessingService interface {
	// ProcessDocument is idempotent: a document whose active plan already
	// exists returns that plan unchanged.
	ProcessDocument(ctx context.Context, documentID, userID primitive.ObjectID) (*domain.TrainingPlan, error)
	// ReprocessDocument regenerates the plan content in place, bumping its
	// version instead of creating a duplicate.
	ReprocessDocument(ctx context.Context, documentID, userID primitive.ObjectID) (*domain.TrainingPlan, error)
	GetPlan(ctx context.Context, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error)
}

type processingService struct {
	docRepo    repository.DocumentRepository
	planRepo   repository.TrainingPlanRepository
	userRepo   repository.UserRepository
	backend    storage.Backend
	extractor  *extractor.Extractor
	gateway    enhance.Gateway
	batchSize  int
	batchDelay time.Duration
}

// NewProcessingService creates a new instance of processingService.
func NewProcessingService(
	docRepo repository.DocumentRepository,
	planRepo repository.TrainingPlanRepository,
	userRepo repository.UserRepository,
	backend storage.Backend,
	ex *extractor.Extractor,
	gateway enhance.Gateway,
	batchSize int,
	batchDelay time.Duration,
) ProcessingService {
	return &processingService{
		docRepo:    docRepo,
		planRepo:   planRepo,
		userRepo:   userRepo,
		backend:    backend,
		extractor:  ex,
		gateway:    gateway,
		batchSize:  batchSize,
		batchDelay: batchDelay,
	}
}

func (s *processingService) ProcessDocument(ctx context.Context, documentID, userID primitive.ObjectID) (*domain.TrainingPlan, error) {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	// Idempotency: one active plan per source document.
	if existing, err := s.planRepo.GetActiveBySourceDocumentID(ctx, documentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	plan, err := s.buildPlan(ctx, doc, userID)
	if err != nil {
		return nil, err
	}
	plan.Version = 1

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID

	s.markProcessed(ctx, doc, planID)
	return plan, nil
}

func (s *processingService) ReprocessDocument(ctx context.Context, documentID, userID primitive.ObjectID) (*domain.TrainingPlan, error) {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.planRepo.GetActiveBySourceDocumentID(ctx, documentID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.ProcessDocument(ctx, documentID, userID)
	}
	if err != nil {
		return nil, err
	}

	rebuilt, err := s.buildPlan(ctx, doc, userID)
	if err != nil {
		return nil, err
	}

	// Same identity, new content, bumped version.
	rebuilt.ID = existing.ID
	rebuilt.CreatedAt = existing.CreatedAt
	rebuilt.Version = existing.Version + 1
	if err := s.planRepo.Update(ctx, rebuilt); err != nil {
		return nil, err
	}

	s.markProcessed(ctx, doc, rebuilt.ID)
	return rebuilt, nil
}

func (s *processingService) GetPlan(ctx context.Context, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *processingService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	return s.planRepo.GetByCreatorID(ctx, userID)
}

func (s *processingService) loadDocument(ctx context.Context, documentID primitive.ObjectID) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ProcessingError{
				Message:     fmt.Sprintf("document %s was not found", documentID.Hex()),
				Suggestions: []string{"The document may have been deleted; upload it again"},
				Err:         ErrDocumentNotFound,
			}
		}
		return nil, err
	}
	return doc, nil
}

// buildPlan runs the extraction pipeline for one document: retrieve bytes,
// extract text, parse structure, classify content, assemble the plan.
func (s *processingService) buildPlan(ctx context.Context, doc *domain.Document, userID primitive.ObjectID) (*domain.TrainingPlan, error) {
	data, err := s.backend.Retrieve(ctx, doc.StorageHandle)
	if err != nil {
		// Completely unreadable bytes are the one condition besides
		// not-found that the entry point surfaces as an error.
		return nil, &ProcessingError{
			Message:     fmt.Sprintf("document %q could not be read from storage", doc.OriginalName),
			Suggestions: []string{"Run an integrity check on the document", "Re-upload the file if storage was lost"},
			Err:         err,
		}
	}

	extracted := s.extractor.Extract(ctx, doc, data)
	if extracted.IsFallback() {
		log.Printf("INFO: document %s extracted via fallback (%s)", doc.ID.Hex(), extracted.Format)
	}

	structure := planparse.ParseStructure(extracted.Text)
	lines := strings.Split(extracted.Text, "\n")

	category := planparse.ExtractCategory(extracted.Text)
	durationWeeks := planparse.ExtractDurationWeeks(extracted.Text)
	schedulePattern, scheduleDays := planparse.ExtractSchedule(extracted.Text)

	weeks := assembleWeeks(structure, extracted.Text)
	weeks = s.enhanceWeeks(ctx, weeks, userID, category)

	creatorName := ""
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		creatorName = user.Name
	}

	plan := &domain.TrainingPlan{
		Title:            planparse.ExtractTitle(lines, doc.OriginalName),
		SourceDocumentID: doc.ID,
		Category:         category,
		DurationLabel:    planparse.DurationLabel(durationWeeks),
		Difficulty:       planparse.ExtractDifficulty(extracted.Text),
		SessionsCount:    planparse.ExtractSessionsCount(extracted.Text, durationWeeks),
		Description:      planparse.ExtractDescription(lines, category),
		Tags:             planparse.ExtractTags(extracted.Text, category),
		Weeks:            weeks,
		Schedule: domain.ScheduleSummary{
			Pattern: schedulePattern,
			Days:    scheduleDays,
		},
		CreatedBy: domain.Creator{UserID: userID, Name: creatorName},
	}
	return plan, nil
}

// enhanceWeeks runs the optional gateway pass. Failures never surface; the
// locally assembled weeks always stand on their own.
func (s *processingService) enhanceWeeks(ctx context.Context, weeks []domain.WeekSession, userID primitive.ObjectID, category string) []domain.WeekSession {
	profile := enhance.Profile{UserID: userID.Hex(), Sport: category}
	return enhance.EnhanceInBatches(ctx, s.gateway, weeks, profile, s.batchSize, s.batchDelay)
}

func (s *processingService) markProcessed(ctx context.Context, doc *domain.Document, planID primitive.ObjectID) {
	now := time.Now().UTC()
	doc.Processed = true
	doc.ProcessedAt = &now
	doc.LinkedTrainingPlanID = &planID
	if err := s.docRepo.Update(ctx, doc); err != nil {
		log.Printf("WARN: marking document %s processed: %v", doc.ID.Hex(), err)
	}
}

// assembleWeeks converts parsed structure into week sessions, keeping the
// duration invariant: a week's total is always the sum of its days, and a
// week with no detected days gets one synthetic full-week session.
func assembleWeeks(structure planparse.DocumentStructure, fullText string) []domain.WeekSession {
	if len(structure.Weeks) == 0 {
		// Free-form document with no detectable week structure: one general
		// week holding everything.
		structure.Weeks = []planparse.WeekBlock{{
			Title:   "Week 1",
			Number:  1,
			Content: planparse.Lines(fullText),
		}}
	}

	weeks := make([]domain.WeekSession, 0, len(structure.Weeks))
	for i, wb := range structure.Weeks {
		weekNumber := i + 1 // monotonically increasing regardless of source numbering

		week := domain.WeekSession{
			WeekNumber:  weekNumber,
			Title:       wb.Title,
			Description: firstLine(wb.Content),
			Focus:       planparse.ExtractFocus(append(wb.Content, wb.Title)),
			Notes:       strings.Join(wb.Content, "\n"),
		}

		for d, db := range wb.Days {
			week.DailySessions = append(week.DailySessions, assembleDay(weekNumber, d+1, db))
		}
		if len(week.DailySessions) == 0 {
			week.DailySessions = []domain.DailySession{syntheticDay(weekNumber, wb)}
		}

		total := 0
		for _, ds := range week.DailySessions {
			total += ds.DurationMinutes
		}
		week.TotalDuration = total

		weeks = append(weeks, week)
	}
	return weeks
}

func assembleDay(weekNumber, dayNumber int, db planparse.DayBlock) domain.DailySession {
	duration := planparse.ParseDurationMinutes(db.Duration)
	if duration <= 0 {
		duration = domain.DefaultSessionMinutes
	}

	raw := strings.Join(db.Content, "\n")
	if len(raw) > maxRawContentLen {
		raw = raw[:maxRawContentLen]
	}

	title := db.Day
	if title != "session" {
		title = strings.ToUpper(title[:1]) + title[1:] + " session"
	} else {
		title = "Training session"
	}

	return domain.DailySession{
		WeekNumber:      weekNumber,
		DayNumber:       dayNumber,
		Title:           title,
		DayName:         db.Day,
		DurationMinutes: duration,
		Activities:      planparse.ExtractActivities(db.Content),
		Drills:          planparse.ExtractDrills(db.Content),
		Objectives:      planparse.ExtractObjectives(db.Content),
		Equipment:       planparse.ExtractEquipment(db.Content),
		RawContent:      raw,
		Focus:           planparse.ExtractFocus(db.Content),
	}
}

// syntheticDay keeps the duration invariant for weeks without day structure.
func syntheticDay(weekNumber int, wb planparse.WeekBlock) domain.DailySession {
	raw := strings.Join(wb.Content, "\n")
	if len(raw) > maxRawContentLen {
		raw = raw[:maxRawContentLen]
	}
	return domain.DailySession{
		WeekNumber:      weekNumber,
		DayNumber:       1,
		Title:           "General training",
		DayName:         domain.WholeWeekDay,
		DurationMinutes: domain.DefaultSessionMinutes,
		Objectives:      planparse.ExtractObjectives(wb.Content),
		Equipment:       planparse.ExtractEquipment(wb.Content),
		RawContent:      raw,
		Focus:           planparse.ExtractFocus(wb.Content),
	}
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
