package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/repository"
	"github.com/littlesteps/booking/internal/validation"
)

var ErrConsentNotFound = errors.New("no consent recorded")

type ConsentInput struct {
	VisitorID     string `json:"visitor_id" validate:"required,max=64"`
	Email         string `json:"email" validate:"omitempty,email,max=254"`
	Analytics     bool   `json:"analytics"`
	Marketing     bool   `json:"marketing"`
	PolicyVersion string `json:"policy_version" validate:"required,max=32"`
}

type ConsentService struct {
	consentRepo repository.ConsentRepository
}

func NewConsentService(consentRepo repository.ConsentRepository) *ConsentService {
	return &ConsentService{consentRepo: consentRepo}
}

// Record appends a consent decision. Necessary cookies are always on.
func (s *ConsentService) Record(ctx context.Context, in ConsentInput) (*model.ConsentRecord, error) {
	in.Email = normalizeEmail(in.Email)
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	record := &model.ConsentRecord{
		VisitorID:     in.VisitorID,
		Necessary:     true,
		Analytics:     in.Analytics,
		Marketing:     in.Marketing,
		PolicyVersion: in.PolicyVersion,
	}
	if in.Email != "" {
		record.Email = &in.Email
	}

	err = s.consentRepo.Create(record)
	if err != nil {
		return nil, fmt.Errorf("failed to record consent: %w", err)
	}
	return record, nil
}

func (s *ConsentService) Latest(ctx context.Context, visitorID string) (*model.ConsentRecord, error) {
	record, err := s.consentRepo.LatestByVisitor(visitorID)
	if errors.Is(err, repository.ErrConsentNotFound) {
		return nil, ErrConsentNotFound
	}
	return record, err
}
