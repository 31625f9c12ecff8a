package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/statemachine"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
	"gorm.io/gorm"
)

// CreatePeriodInput describes a new fiscal period
type CreatePeriodInput struct {
	Name         string
	FiscalYear   int
	PeriodNumber int
	StartDate    time.Time
	EndDate      time.Time
}

type PeriodService struct {
	repos *repository.Repositories
}

func NewPeriodService(repos *repository.Repositories) *PeriodService {
	return &PeriodService{repos: repos}
}

func (s *PeriodService) Get(ctx context.Context, id uint) (*models.FiscalPeriod, error) {
	period, err := s.repos.Period.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "fiscal period", id)
	}
	return period, nil
}

func (s *PeriodService) List(ctx context.Context, query *repository.ListQuery) ([]models.FiscalPeriod, int64, error) {
	return s.repos.Period.List(ctx, query)
}

// CurrentID returns the id of the current period, 0 when none is set
func (s *PeriodService) CurrentID(ctx context.Context) (uint, error) {
	return s.repos.Period.GetCurrentID(ctx)
}

// Current returns the period marked as current
func (s *PeriodService) Current(ctx context.Context) (*models.FiscalPeriod, error) {
	id, err := s.repos.Period.GetCurrentID(ctx)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, wrap(ErrNotFound, "no current fiscal period is set")
	}
	return s.Get(ctx, id)
}

// FindForDate returns the period containing date
func (s *PeriodService) FindForDate(ctx context.Context, date time.Time) (*models.FiscalPeriod, error) {
	return findPeriodForDate(ctx, s.repos, date)
}

func findPeriodForDate(ctx context.Context, repos *repository.Repositories, date time.Time) (*models.FiscalPeriod, error) {
	period, err := repos.Period.FindForDate(ctx, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrap(ErrNoFiscalPeriod, "no fiscal period covers %s", models.FormatDate(date))
	}
	return period, err
}

// Create opens a new period. The first period ever created becomes current.
func (s *PeriodService) Create(ctx context.Context, input CreatePeriodInput, actor Actor) (*models.FiscalPeriod, error) {
	start, end := models.Date(input.StartDate), models.Date(input.EndDate)
	switch {
	case input.StartDate.IsZero() || input.EndDate.IsZero():
		return nil, invalid("start_date and end_date are required")
	case end.Before(start):
		return nil, invalid("end_date %s is before start_date %s", models.FormatDate(end), models.FormatDate(start))
	case input.FiscalYear <= 0:
		return nil, invalid("fiscal_year must be positive")
	case input.PeriodNumber <= 0:
		return nil, invalid("period_number must be positive")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = fmt.Sprintf("FY%d-P%02d", input.FiscalYear, input.PeriodNumber)
	}

	period := &models.FiscalPeriod{
		Name:         name,
		FiscalYear:   input.FiscalYear,
		PeriodNumber: input.PeriodNumber,
		StartDate:    start,
		EndDate:      end,
		Status:       models.PeriodStatusOpen,
	}

	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		overlapping, err := tx.Period.CountOverlapping(ctx, start, end)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return wrap(ErrPeriodOverlap, "%s to %s overlaps an existing period", models.FormatDate(start), models.FormatDate(end))
		}

		if err := tx.Period.Create(ctx, period); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return wrap(ErrDuplicate, "period %d of fiscal year %d already exists", input.PeriodNumber, input.FiscalYear)
			}
			return err
		}

		currentID, err := tx.Period.GetCurrentID(ctx)
		if err != nil {
			return err
		}
		if currentID == 0 {
			if err := tx.Period.SetCurrent(ctx, period.ID); err != nil {
				return err
			}
		}

		return audit(ctx, tx, actor, models.AuditActionCreate, "fiscal_period", period.ID,
			"Opened period %s (%s to %s)", period.Name, models.FormatDate(start), models.FormatDate(end))
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// Close stops postings into an open period. Pending drafts must be posted or voided first.
func (s *PeriodService) Close(ctx context.Context, id uint, actor Actor) (*models.FiscalPeriod, error) {
	return s.transition(ctx, id, actor, models.AuditActionClose, "", func(ctx context.Context, tx *repository.Repositories, period *models.FiscalPeriod) error {
		if err := requireNoDrafts(ctx, tx, period); err != nil {
			return err
		}
		return statemachine.NewPeriodFSM(period).Close(ctx)
	})
}

// Reopen moves a closed period back to open
func (s *PeriodService) Reopen(ctx context.Context, id uint, reason string, actor Actor) (*models.FiscalPeriod, error) {
	return s.transition(ctx, id, actor, models.AuditActionReopen, reason, func(ctx context.Context, _ *repository.Repositories, period *models.FiscalPeriod) error {
		if period.Status == models.PeriodStatusLocked {
			return wrap(ErrPeriodLocked, "period %s is locked, use override reopen", period.Name)
		}
		return statemachine.NewPeriodFSM(period).Reopen(ctx)
	})
}

// Lock freezes a period permanently; only an override can reopen it
func (s *PeriodService) Lock(ctx context.Context, id uint, actor Actor) (*models.FiscalPeriod, error) {
	return s.transition(ctx, id, actor, models.AuditActionLock, "", func(ctx context.Context, tx *repository.Repositories, period *models.FiscalPeriod) error {
		// Closed periods accept drafts, so the check applies to every source state.
		if err := requireNoDrafts(ctx, tx, period); err != nil {
			return err
		}
		return statemachine.NewPeriodFSM(period).Lock(ctx)
	})
}

// OverrideReopen reopens a locked period. A reason is mandatory and the action is audited.
func (s *PeriodService) OverrideReopen(ctx context.Context, id uint, reason string, actor Actor) (*models.FiscalPeriod, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalid("reason is required to override a locked period")
	}

	period, err := s.transition(ctx, id, actor, models.AuditActionOverrideReopen, reason, func(ctx context.Context, _ *repository.Repositories, period *models.FiscalPeriod) error {
		return statemachine.NewPeriodFSM(period).OverrideReopen(ctx)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Warn("Locked fiscal period reopened by override",
		"fiscal_period_id", period.ID, "user_id", actor.UserID, "reason", reason)
	return period, nil
}

// SetCurrent marks id as the current period in one upsert
func (s *PeriodService) SetCurrent(ctx context.Context, id uint, actor Actor) (*models.FiscalPeriod, error) {
	var period *models.FiscalPeriod
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		period, err = tx.Period.FindByID(ctx, id)
		if err != nil {
			return translate(err, "fiscal period", id)
		}
		if err := tx.Period.SetCurrent(ctx, period.ID); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionSetCurrent, "fiscal_period", period.ID,
			"Set %s as current period", period.Name)
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (s *PeriodService) transition(
	ctx context.Context,
	id uint,
	actor Actor,
	action string,
	reason string,
	apply func(ctx context.Context, tx *repository.Repositories, period *models.FiscalPeriod) error,
) (*models.FiscalPeriod, error) {
	var period *models.FiscalPeriod
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		period, err = tx.Period.FindByID(ctx, id)
		if err != nil {
			return translate(err, "fiscal period", id)
		}

		from := period.Status
		if err := apply(ctx, tx, period); err != nil {
			return translate(err, "fiscal period", id)
		}
		if err := tx.Period.Update(ctx, period); err != nil {
			return err
		}

		details := fmt.Sprintf("Period %s: %s -> %s", period.Name, from, period.Status)
		if reason != "" {
			details += ". Reason: " + reason
		}
		return audit(ctx, tx, actor, action, "fiscal_period", period.ID, "%s", details)
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

func requireNoDrafts(ctx context.Context, tx *repository.Repositories, period *models.FiscalPeriod) error {
	drafts, err := tx.Transaction.CountByPeriod(ctx, period.ID, models.TransactionStatusDraft)
	if err != nil {
		return err
	}
	if drafts > 0 {
		return wrap(ErrHasDraftTransactions, "period %s has %d draft transactions", period.Name, drafts)
	}
	return nil
}
