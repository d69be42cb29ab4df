package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/model"
	"github.com/reluxe-pos/app/internal/store"
)

// ErrInvalidMember wraps validation failures on member input.
var ErrInvalidMember = errors.New("invalid member")

// AddMemberRequest is the add-member form. Phone numbers must be the
// 11-digit mobile format.
type AddMemberRequest struct {
	Name     string `validate:"required"`
	Phone    string `validate:"required,len=11,numeric"`
	Gender   string `validate:"required,oneof=male female"`
	Avatar   string `validate:"omitempty,url"`
	ShopName string
}

// MemberService handles member creation, edits, and identity verification.
type MemberService struct {
	store    *store.Store
	hub      *event.Hub
	validate *validator.Validate
	newID    func() string
}

// NewMemberService creates a new MemberService.
func NewMemberService(st *store.Store, hub *event.Hub) *MemberService {
	return &MemberService{
		store:    st,
		hub:      hub,
		validate: validator.New(),
		newID:    func() string { return uuid.NewString()[:8] },
	}
}

// WithIDGenerator overrides the id source.
func (s *MemberService) WithIDGenerator(gen func() string) *MemberService {
	s.newID = gen
	return s
}

// Add creates a member. New members are always unverified; only the
// verification flow flips the flag.
func (s *MemberService) Add(req AddMemberRequest) (*model.Member, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMember, err)
	}

	member := model.Member{
		ID:         "m-" + s.newID(),
		Name:       req.Name,
		Phone:      req.Phone,
		Gender:     req.Gender,
		Avatar:     req.Avatar,
		ShopName:   req.ShopName,
		IsVerified: false,
	}
	s.store.InsertMember(member)

	s.hub.Publish(event.TopicMembers, "member.added", member)
	return &member, nil
}

// Update replaces the stored member with the given value. The verification
// flag cannot be changed this way.
func (s *MemberService) Update(m model.Member) (*model.Member, error) {
	if err := s.validate.Struct(AddMemberRequest{
		Name:   m.Name,
		Phone:  m.Phone,
		Gender: m.Gender,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMember, err)
	}

	current, err := s.store.GetMember(m.ID)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	m.IsVerified = current.IsVerified
	if err := s.store.ReplaceMember(m); err != nil {
		return nil, fmt.Errorf("replace member: %w", err)
	}

	s.hub.Publish(event.TopicMembers, "member.updated", m)
	return &m, nil
}

// Verify marks the member identity-verified and returns the updated record.
// Callers holding member references (selection, in-progress order) must
// replace them with the returned value.
func (s *MemberService) Verify(memberID string) (*model.Member, error) {
	member, err := s.store.GetMember(memberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	member.IsVerified = true
	if err := s.store.ReplaceMember(member); err != nil {
		return nil, fmt.Errorf("replace member: %w", err)
	}

	s.hub.Publish(event.TopicMembers, "member.verified", member)
	return &member, nil
}
