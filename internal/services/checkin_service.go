package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"
)

// CheckInService handles member gym entry.
type CheckInService struct {
	checkInRepo repositories.CheckInRepository
	memberRepo  repositories.MemberRepository
	db          *sql.DB

	clock func() time.Time
}

// NewCheckInService creates a new CheckInService.
func NewCheckInService(checkInRepo repositories.CheckInRepository, memberRepo repositories.MemberRepository, db *sql.DB) *CheckInService {
	return &CheckInService{checkInRepo: checkInRepo, memberRepo: memberRepo, db: db, clock: time.Now}
}

// CheckInResult carries the created check-in together with the member
// state the front desk needs to see at the door.
type CheckInResult struct {
	CheckIn      *models.CheckIn `json:"check_in"`
	Member       *models.Member  `json:"member"`
	MemberStatus string          `json:"member_status"`

	// Warning is set when the member was let in with a lapsed or
	// soon-to-lapse membership.
	Warning string `json:"warning,omitempty"`
}

// CheckInByCode records a check-in for a member identified by member
// code, the QR flow. An expired membership does not block the check-in
// but is reported in the result so the desk can act.
func (s *CheckInService) CheckInByCode(code string, method string) (*CheckInResult, error) {
	member, err := s.memberRepo.GetMemberByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: member code %q", ErrNotFound, code)
		}
		return nil, err
	}
	return s.checkInMember(member, method)
}

// CheckInByID records a check-in for a member identified by ID, the
// manual/search flow.
func (s *CheckInService) CheckInByID(memberID int64, method string) (*CheckInResult, error) {
	member, err := s.memberRepo.GetMemberByID(memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: member ID %d", ErrNotFound, memberID)
		}
		return nil, err
	}
	return s.checkInMember(member, method)
}

func (s *CheckInService) checkInMember(member *models.Member, method string) (*CheckInResult, error) {
	switch method {
	case models.CheckInMethodQR, models.CheckInMethodManual, models.CheckInMethodSearch:
	case "":
		method = models.CheckInMethodManual
	default:
		return nil, fmt.Errorf("%w: unknown check-in method %q", ErrValidation, method)
	}

	now := s.clock()
	status := DeriveMemberStatus(member.EndDate, now)

	checkIn := &models.CheckIn{
		MemberID:    member.ID,
		CheckInTime: now,
		Method:      method,
	}
	created, err := s.checkInRepo.CreateCheckIn(s.db, checkIn)
	if err != nil {
		return nil, err
	}
	memberCheckInsTotal.WithLabelValues(method).Inc()

	result := &CheckInResult{
		CheckIn:      created,
		Member:       member,
		MemberStatus: status,
	}
	switch status {
	case models.MemberStatusExpired:
		result.Warning = "membership expired"
	case models.MemberStatusExpiringSoon:
		result.Warning = "membership expiring soon"
	}
	member.Status = status
	return result, nil
}

// CheckOut stamps a departure time on an open check-in.
func (s *CheckInService) CheckOut(checkInID int64) error {
	if err := s.checkInRepo.CheckOut(s.db, checkInID, s.clock()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: open check-in ID %d", ErrNotFound, checkInID)
		}
		return err
	}
	return nil
}

// ListCheckIns returns a page of check-ins.
func (s *CheckInService) ListCheckIns(memberID *int64, dateFrom, dateTo *string, page, pageSize int) ([]models.CheckIn, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.checkInRepo.GetCheckIns(memberID, dateFrom, dateTo, page, pageSize)
}
