package service_test

import (
	"errors"
	"testing"

	"github.com/reluxe-pos/app/internal/enum"
	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/service"
	"github.com/reluxe-pos/app/internal/store"
)

func newMemberService(st *store.Store) *service.MemberService {
	return service.NewMemberService(st, event.NewHub()).WithIDGenerator(sequentialIDs())
}

func TestAddMember_HappyPath(t *testing.T) {
	st := newSeededStore()
	svc := newMemberService(st)

	member, err := svc.Add(service.AddMemberRequest{
		Name:   "Zhao Lin",
		Phone:  "13512340000",
		Gender: enum.GenderFemale,
	})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}

	if member.ID != "m-t001" {
		t.Errorf("id: got %s, want m-t001", member.ID)
	}
	if member.IsVerified {
		t.Error("new member must start unverified")
	}
	if _, err := st.GetMember(member.ID); err != nil {
		t.Errorf("member not stored: %v", err)
	}
}

func TestAddMember_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  service.AddMemberRequest
	}{
		{"missing name", service.AddMemberRequest{Phone: "13512340000", Gender: enum.GenderMale}},
		{"short phone", service.AddMemberRequest{Name: "Zhao Lin", Phone: "1351234", Gender: enum.GenderMale}},
		{"non-numeric phone", service.AddMemberRequest{Name: "Zhao Lin", Phone: "13512x40000", Gender: enum.GenderMale}},
		{"bad gender", service.AddMemberRequest{Name: "Zhao Lin", Phone: "13512340000", Gender: "other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMemberService(newSeededStore())
			if _, err := svc.Add(tt.req); !errors.Is(err, service.ErrInvalidMember) {
				t.Errorf("got %v, want %v", err, service.ErrInvalidMember)
			}
		})
	}
}

func TestUpdateMember_PreservesVerification(t *testing.T) {
	st := newSeededStore()
	svc := newMemberService(st)

	// m-1 is seeded verified; an edit must not be able to clear the flag.
	member, _ := st.GetMember("m-1")
	member.Name = "Wang Leilei"
	member.IsVerified = false

	updated, err := svc.Update(member)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsVerified {
		t.Error("verification flag was cleared by an edit")
	}
	if updated.Name != "Wang Leilei" {
		t.Errorf("name: got %s, want Wang Leilei", updated.Name)
	}
}

func TestVerifyMember(t *testing.T) {
	st := newSeededStore()
	svc := newMemberService(st)

	// m-2 is seeded unverified.
	verified, err := svc.Verify("m-2")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.IsVerified {
		t.Error("returned member not verified")
	}

	stored, _ := st.GetMember("m-2")
	if !stored.IsVerified {
		t.Error("stored member not verified")
	}

	if _, err := svc.Verify("m-999"); !errors.Is(err, service.ErrMemberNotFound) {
		t.Errorf("unknown member: got %v, want %v", err, service.ErrMemberNotFound)
	}
}
