package services

import (
	"errors"
	"testing"
	"time"

	"power_gym_backend/internal/models"
)

func strPtr(s string) *string { return &s }

func TestDeriveMemberStatus(t *testing.T) {
	now := time.Date(2025, time.June, 2, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name    string
		endDate *string
		want    string
	}{
		{"no end date", nil, models.MemberStatusExpired},
		{"empty end date", strPtr(""), models.MemberStatusExpired},
		{"ended yesterday", strPtr("2025-06-01"), models.MemberStatusExpired},
		{"ends today", strPtr("2025-06-02"), models.MemberStatusExpiringSoon},
		{"ends in seven days", strPtr("2025-06-09"), models.MemberStatusExpiringSoon},
		{"ends in eight days", strPtr("2025-06-10"), models.MemberStatusActive},
		{"ends next year", strPtr("2026-06-02"), models.MemberStatusActive},
		{"unparseable", strPtr("junk"), models.MemberStatusExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveMemberStatus(tc.endDate, now); got != tc.want {
				t.Errorf("DeriveMemberStatus(%v) = %q, want %q", tc.endDate, got, tc.want)
			}
		})
	}
}

func newMemberFixture(t *testing.T) (*MemberService, *mockMemberRepo) {
	t.Helper()
	repo := newMockMemberRepo()
	svc := &MemberService{
		memberRepo: repo,
		clock:      func() time.Time { return time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC) },
	}
	return svc, repo
}

func TestCreateMemberGeneratesCode(t *testing.T) {
	svc, _ := newMemberFixture(t)

	member, err := svc.CreateMember(&models.Member{
		FullNameEN: "Mya Mya",
		Phone:      "09-111111111",
		Gender:     "Female",
	})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	if member.MemberCode != "GM001" {
		t.Errorf("member code = %q, want GM001", member.MemberCode)
	}
	if member.JoinDate != "2025-06-02" {
		t.Errorf("join date = %q, want today", member.JoinDate)
	}
	if member.Status != models.MemberStatusExpired {
		t.Errorf("status = %q, want %q for a member without a membership", member.Status, models.MemberStatusExpired)
	}
}

func TestCreateMemberValidation(t *testing.T) {
	svc, _ := newMemberFixture(t)

	cases := []struct {
		name   string
		member models.Member
	}{
		{"missing name", models.Member{Phone: "09-1"}},
		{"missing phone", models.Member{FullNameEN: "Mya Mya"}},
		{"bad email", models.Member{FullNameEN: "Mya Mya", Phone: "09-1", Email: strPtr("not-an-email")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateMember(&tc.member); !errors.Is(err, ErrValidation) {
				t.Errorf("CreateMember err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateMemberDuplicateCode(t *testing.T) {
	svc, _ := newMemberFixture(t)

	first := &models.Member{FullNameEN: "Mya Mya", Phone: "09-1", Gender: "Female", MemberCode: "GM777"}
	if _, err := svc.CreateMember(first); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	second := &models.Member{FullNameEN: "Hla Hla", Phone: "09-2", Gender: "Female", MemberCode: "GM777"}
	if _, err := svc.CreateMember(second); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate CreateMember err = %v, want ErrConflict", err)
	}
}

func TestGetMemberDerivesStatus(t *testing.T) {
	svc, repo := newMemberFixture(t)
	end := "2025-06-05"
	repo.CreateMember(nil, &models.Member{FullNameEN: "Mya Mya", Phone: "09-1", EndDate: &end})

	member, err := svc.GetMember(1)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if member.Status != models.MemberStatusExpiringSoon {
		t.Errorf("status = %q, want %q", member.Status, models.MemberStatusExpiringSoon)
	}
}

func TestGetMemberByCode(t *testing.T) {
	svc, repo := newMemberFixture(t)
	repo.CreateMember(nil, &models.Member{FullNameEN: "Mya Mya", Phone: "09-1", MemberCode: "GM005"})

	member, err := svc.GetMemberByCode("GM005")
	if err != nil {
		t.Fatalf("GetMemberByCode: %v", err)
	}
	if member.FullNameEN != "Mya Mya" {
		t.Errorf("name = %q, want Mya Mya", member.FullNameEN)
	}

	if _, err := svc.GetMemberByCode("GM999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown code err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetMemberByCode(""); !errors.Is(err, ErrValidation) {
		t.Errorf("empty code err = %v, want ErrValidation", err)
	}
}

func TestMembershipTypeValidation(t *testing.T) {
	svc, _ := newMemberFixture(t)

	cases := []struct {
		name string
		plan models.MembershipType
	}{
		{"missing name", models.MembershipType{DurationDays: 30, Price: 100}},
		{"zero duration", models.MembershipType{NameEN: "Monthly", DurationDays: 0, Price: 100}},
		{"negative price", models.MembershipType{NameEN: "Monthly", DurationDays: 30, Price: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateMembershipType(&tc.plan); !errors.Is(err, ErrValidation) {
				t.Errorf("CreateMembershipType err = %v, want ErrValidation", err)
			}
		})
	}
}
