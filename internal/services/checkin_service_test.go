package services

import (
	"errors"
	"testing"
	"time"

	"power_gym_backend/internal/models"
)

func newCheckInFixture(t *testing.T) (*CheckInService, *mockMemberRepo, *mockCheckInRepo) {
	t.Helper()
	memberRepo := newMockMemberRepo()
	checkInRepo := &mockCheckInRepo{}
	svc := &CheckInService{
		checkInRepo: checkInRepo,
		memberRepo:  memberRepo,
		clock:       func() time.Time { return time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC) },
	}
	return svc, memberRepo, checkInRepo
}

func TestCheckInByCodeActiveMember(t *testing.T) {
	svc, memberRepo, checkInRepo := newCheckInFixture(t)
	end := "2025-12-31"
	memberRepo.CreateMember(nil, &models.Member{MemberCode: "GM001", FullNameEN: "Mya Mya", Phone: "09-1", EndDate: &end})

	result, err := svc.CheckInByCode("GM001", models.CheckInMethodQR)
	if err != nil {
		t.Fatalf("CheckInByCode: %v", err)
	}
	if result.MemberStatus != models.MemberStatusActive {
		t.Errorf("member status = %q, want %q", result.MemberStatus, models.MemberStatusActive)
	}
	if result.Warning != "" {
		t.Errorf("warning = %q, want none for an active member", result.Warning)
	}
	if result.CheckIn.Method != models.CheckInMethodQR {
		t.Errorf("method = %q, want %q", result.CheckIn.Method, models.CheckInMethodQR)
	}
	if len(checkInRepo.checkIns) != 1 {
		t.Errorf("stored check-ins = %d, want 1", len(checkInRepo.checkIns))
	}
}

func TestCheckInExpiredMemberAllowedWithWarning(t *testing.T) {
	svc, memberRepo, _ := newCheckInFixture(t)
	end := "2025-01-01"
	memberRepo.CreateMember(nil, &models.Member{MemberCode: "GM002", FullNameEN: "Hla Hla", Phone: "09-2", EndDate: &end})

	result, err := svc.CheckInByCode("GM002", models.CheckInMethodManual)
	if err != nil {
		t.Fatalf("CheckInByCode: %v", err)
	}
	if result.MemberStatus != models.MemberStatusExpired {
		t.Errorf("member status = %q, want %q", result.MemberStatus, models.MemberStatusExpired)
	}
	if result.Warning == "" {
		t.Error("expired member check-in should carry a warning")
	}
}

func TestCheckInUnknownCode(t *testing.T) {
	svc, _, _ := newCheckInFixture(t)
	if _, err := svc.CheckInByCode("GM999", models.CheckInMethodQR); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CheckInByCode err = %v, want ErrNotFound", err)
	}
}

func TestCheckInRejectsUnknownMethod(t *testing.T) {
	svc, memberRepo, _ := newCheckInFixture(t)
	memberRepo.CreateMember(nil, &models.Member{MemberCode: "GM001", FullNameEN: "Mya Mya", Phone: "09-1"})

	if _, err := svc.CheckInByCode("GM001", "Telepathy"); !errors.Is(err, ErrValidation) {
		t.Fatalf("CheckInByCode err = %v, want ErrValidation", err)
	}
}

func TestCheckInDefaultsToManualMethod(t *testing.T) {
	svc, memberRepo, _ := newCheckInFixture(t)
	memberRepo.CreateMember(nil, &models.Member{MemberCode: "GM001", FullNameEN: "Mya Mya", Phone: "09-1"})

	result, err := svc.CheckInByID(1, "")
	if err != nil {
		t.Fatalf("CheckInByID: %v", err)
	}
	if result.CheckIn.Method != models.CheckInMethodManual {
		t.Errorf("method = %q, want %q", result.CheckIn.Method, models.CheckInMethodManual)
	}
}
