package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"
	"power_gym_backend/pkg/utils"
)

// expiringSoonDays is the window before the end date in which a member
// counts as Expiring Soon.
const expiringSoonDays = 7

// MemberService handles member and membership-type business rules.
type MemberService struct {
	memberRepo repositories.MemberRepository
	db         *sql.DB

	// clock is replaceable in tests; status derivation depends on today.
	clock func() time.Time
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo repositories.MemberRepository, db *sql.DB) *MemberService {
	return &MemberService{memberRepo: memberRepo, db: db, clock: time.Now}
}

// DeriveMemberStatus classifies a membership end date against today.
// Members without an end date count as Expired.
func DeriveMemberStatus(endDate *string, now time.Time) string {
	if endDate == nil || *endDate == "" {
		return models.MemberStatusExpired
	}
	end, err := time.ParseInLocation("2006-01-02", *endDate, now.Location())
	if err != nil {
		return models.MemberStatusExpired
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if end.Before(today) {
		return models.MemberStatusExpired
	}
	if !end.After(today.AddDate(0, 0, expiringSoonDays)) {
		return models.MemberStatusExpiringSoon
	}
	return models.MemberStatusActive
}

func (s *MemberService) applyStatus(member *models.Member) {
	member.Status = DeriveMemberStatus(member.EndDate, s.clock())
}

// CreateMember validates and stores a new member. The member code is
// generated when absent; a supplied one is kept as-is.
func (s *MemberService) CreateMember(member *models.Member) (*models.Member, error) {
	if utils.IsEmpty(member.FullNameEN) {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if utils.IsEmpty(member.Phone) {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if member.Email != nil && *member.Email != "" && !utils.IsValidEmail(*member.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if member.JoinDate == "" {
		member.JoinDate = s.clock().Format("2006-01-02")
	}

	if member.MemberCode == "" {
		code, err := s.memberRepo.NextMemberCode()
		if err != nil {
			return nil, err
		}
		member.MemberCode = code
	}

	created, err := s.memberRepo.CreateMember(s.db, member)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: member code %q is taken", ErrConflict, member.MemberCode)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: membership type", ErrNotFound)
		}
		return nil, err
	}
	s.applyStatus(created)
	return created, nil
}

// GetMember loads a member by ID with its derived status.
func (s *MemberService) GetMember(id int64) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.applyStatus(member)
	return member, nil
}

// GetMemberByCode loads a member by its code, for QR check-in.
func (s *MemberService) GetMemberByCode(code string) (*models.Member, error) {
	if utils.IsEmpty(code) {
		return nil, fmt.Errorf("%w: member code is required", ErrValidation)
	}
	member, err := s.memberRepo.GetMemberByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.applyStatus(member)
	return member, nil
}

// ListMembers returns a page of members with derived statuses.
func (s *MemberService) ListMembers(filters models.MemberFilters) ([]models.Member, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	members, total, err := s.memberRepo.GetMembers(filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range members {
		s.applyStatus(&members[i])
	}
	return members, total, nil
}

// UpdateMember validates and stores member changes.
func (s *MemberService) UpdateMember(member *models.Member) (*models.Member, error) {
	if utils.IsEmpty(member.FullNameEN) {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if utils.IsEmpty(member.Phone) {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if member.Email != nil && *member.Email != "" && !utils.IsValidEmail(*member.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	updated, err := s.memberRepo.UpdateMember(s.db, member)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.applyStatus(updated)
	return updated, nil
}

// DeleteMember removes a member record.
func (s *MemberService) DeleteMember(id int64) error {
	if err := s.memberRepo.DeleteMember(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// --- Membership types ---

// CreateMembershipType validates and stores a new plan.
func (s *MemberService) CreateMembershipType(mt *models.MembershipType) (*models.MembershipType, error) {
	if utils.IsEmpty(mt.NameEN) {
		return nil, fmt.Errorf("%w: plan name is required", ErrValidation)
	}
	if mt.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	if mt.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return s.memberRepo.CreateMembershipType(s.db, mt)
}

// GetMembershipType loads one plan.
func (s *MemberService) GetMembershipType(id int64) (*models.MembershipType, error) {
	mt, err := s.memberRepo.GetMembershipTypeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return mt, nil
}

// ListMembershipTypes returns all plans, optionally active only.
func (s *MemberService) ListMembershipTypes(onlyActive bool) ([]models.MembershipType, error) {
	return s.memberRepo.GetMembershipTypes(onlyActive)
}

// UpdateMembershipType validates and stores plan changes.
func (s *MemberService) UpdateMembershipType(mt *models.MembershipType) (*models.MembershipType, error) {
	if utils.IsEmpty(mt.NameEN) {
		return nil, fmt.Errorf("%w: plan name is required", ErrValidation)
	}
	if mt.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	if mt.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	updated, err := s.memberRepo.UpdateMembershipType(s.db, mt)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteMembershipType removes a plan.
func (s *MemberService) DeleteMembershipType(id int64) error {
	if err := s.memberRepo.DeleteMembershipType(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
