package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/linkmark/internal/domain/entity"
	"github.com/bnema/linkmark/internal/domain/repository"
	domainurl "github.com/bnema/linkmark/internal/domain/url"
	"github.com/bnema/linkmark/internal/logging"
)

// logURLMaxLen is the max length for URLs in log messages.
const logURLMaxLen = 60

// ErrInvalidURL is returned when a visit URL cannot be normalized.
var ErrInvalidURL = errors.New("invalid url")

// RecordVisitUseCase stores visits under the same normalized key the
// highlighter looks them up by.
type RecordVisitUseCase struct {
	historyRepo repository.HistoryRepository
	validator   *domainurl.Validator
	now         func() time.Time
}

// NewRecordVisitUseCase creates a use case accepting the given protocols.
func NewRecordVisitUseCase(historyRepo repository.HistoryRepository, protocols []string) *RecordVisitUseCase {
	return &RecordVisitUseCase{
		historyRepo: historyRepo,
		validator:   domainurl.NewValidator(protocols),
		now:         time.Now,
	}
}

// RecordVisitInput describes one visit. A zero At means now.
type RecordVisitInput struct {
	URL   string
	Title string
	At    time.Time
}

// Execute normalizes the URL and records the visit.
func (uc *RecordVisitUseCase) Execute(ctx context.Context, input RecordVisitInput) (*entity.HistoryEntry, error) {
	log := logging.FromContext(ctx)

	key, err := uc.Normalize(input.URL)
	if err != nil {
		return nil, err
	}

	at := input.At
	if at.IsZero() {
		at = uc.now()
	}

	entry, err := uc.historyRepo.RecordVisit(ctx, key, input.Title, at)
	if err != nil {
		return nil, fmt.Errorf("failed to record visit: %w", err)
	}

	log.Debug().
		Str("url", logging.TruncateURL(key, logURLMaxLen)).
		Int64("visit_count", entry.VisitCount).
		Msg("visit recorded")
	return entry, nil
}

// Normalize completes user input such as "example.com/docs" and returns the
// key visits are stored under.
func (uc *RecordVisitUseCase) Normalize(raw string) (string, error) {
	key, err := uc.validator.Normalize(domainurl.CompleteInput(raw), "")
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidURL, raw, err)
	}
	return key, nil
}
