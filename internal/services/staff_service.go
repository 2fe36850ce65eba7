package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"
	"power_gym_backend/internal/scheduling"
	"power_gym_backend/pkg/utils"
)

// StaffService handles staff records and their weekly schedules.
type StaffService struct {
	staffRepo repositories.StaffRepository
	db        *sql.DB

	begin beginFunc
	clock func() time.Time
}

// NewStaffService creates a new StaffService.
func NewStaffService(staffRepo repositories.StaffRepository, db *sql.DB) *StaffService {
	return &StaffService{staffRepo: staffRepo, db: db, begin: sqlBeginner(db), clock: time.Now}
}

func (s *StaffService) validateStaff(staff *models.Staff) error {
	if utils.IsEmpty(staff.Name) {
		return fmt.Errorf("%w: staff name is required", ErrValidation)
	}
	if utils.IsEmpty(staff.Role) {
		return fmt.Errorf("%w: staff role is required", ErrValidation)
	}
	if utils.IsEmpty(staff.Phone) {
		return fmt.Errorf("%w: staff phone is required", ErrValidation)
	}
	if staff.Email != nil && *staff.Email != "" && !utils.IsValidEmail(*staff.Email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if staff.Salary != nil && *staff.Salary < 0 {
		return fmt.Errorf("%w: salary cannot be negative", ErrValidation)
	}
	return nil
}

// CreateStaff validates and stores a new staff member, generating the
// staff code when absent. A supplied weekly schedule is stored in the
// same transaction.
func (s *StaffService) CreateStaff(staff *models.Staff) (*models.Staff, error) {
	if err := s.validateStaff(staff); err != nil {
		return nil, err
	}
	if staff.JoinDate == "" {
		staff.JoinDate = s.clock().Format("2006-01-02")
	}
	if staff.WeeklySchedule != nil {
		if err := staff.WeeklySchedule.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	if staff.StaffCode == "" {
		code, err := s.staffRepo.NextStaffCode()
		if err != nil {
			return nil, err
		}
		staff.StaffCode = code
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("starting staff create: %w", err)
	}
	defer tx.Rollback()

	created, err := s.staffRepo.CreateStaff(tx, staff)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: staff code %q is taken", ErrConflict, staff.StaffCode)
		}
		return nil, err
	}

	if staff.WeeklySchedule != nil {
		if err := s.staffRepo.ReplaceWeeklySchedule(tx, created.ID, staff.WeeklySchedule); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing staff create: %w", err)
	}
	return created, nil
}

// GetStaff loads one staff member with their weekly schedule.
func (s *StaffService) GetStaff(id int64) (*models.Staff, error) {
	staff, err := s.staffRepo.GetStaffByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return staff, nil
}

// ListStaff returns a page of staff members.
func (s *StaffService) ListStaff(filters models.StaffFilters) ([]models.Staff, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}
	return s.staffRepo.GetStaff(filters)
}

// UpdateStaff validates and stores staff changes. A weekly schedule in
// the payload replaces all seven days at once.
func (s *StaffService) UpdateStaff(staff *models.Staff) (*models.Staff, error) {
	if err := s.validateStaff(staff); err != nil {
		return nil, err
	}
	if staff.Status != "" && staff.Status != models.StaffStatusActive && staff.Status != models.StaffStatusInactive {
		return nil, fmt.Errorf("%w: unknown staff status %q", ErrValidation, staff.Status)
	}
	if staff.WeeklySchedule != nil {
		if err := staff.WeeklySchedule.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("starting staff update: %w", err)
	}
	defer tx.Rollback()

	updated, err := s.staffRepo.UpdateStaff(tx, staff)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if staff.WeeklySchedule != nil {
		if err := s.staffRepo.ReplaceWeeklySchedule(tx, staff.ID, staff.WeeklySchedule); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing staff update: %w", err)
	}
	return updated, nil
}

// UpdateWeeklySchedule replaces a staff member's schedule.
func (s *StaffService) UpdateWeeklySchedule(staffID int64, schedule *scheduling.WeeklySchedule) (*scheduling.WeeklySchedule, error) {
	if schedule == nil {
		return nil, fmt.Errorf("%w: schedule is required", ErrValidation)
	}
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.staffRepo.GetStaffByID(staffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrNotFound, staffID)
		}
		return nil, err
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("starting schedule update: %w", err)
	}
	defer tx.Rollback()

	if err := s.staffRepo.ReplaceWeeklySchedule(tx, staffID, schedule); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrNotFound, staffID)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing schedule update: %w", err)
	}
	return schedule, nil
}

// GetWeeklySchedule loads a staff member's schedule. Staff without one
// get the default all-off week rather than an error.
func (s *StaffService) GetWeeklySchedule(staffID int64) (*scheduling.WeeklySchedule, error) {
	if _, err := s.staffRepo.GetStaffByID(staffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrNotFound, staffID)
		}
		return nil, err
	}

	schedule, err := s.staffRepo.GetWeeklySchedule(staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			def := scheduling.DefaultWeeklySchedule()
			return &def, nil
		}
		return nil, err
	}
	return schedule, nil
}

// DeactivateStaff soft deletes a staff member. Attendance history and
// the schedule stay in place.
func (s *StaffService) DeactivateStaff(id int64) error {
	if err := s.staffRepo.DeactivateStaff(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
