package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

type TransactionService struct {
	Transactions repository.TransactionRepository
	Profiles     repository.ProfileRepository
	Now          func() time.Time
}

type CreateTransactionInput struct {
	Amount    int64
	Type      string
	ProfileID int64
	Concept   string
	Date      *time.Time
}

func (s *TransactionService) List(ctx context.Context) ([]entity.Transaction, error) {
	return s.Transactions.List(ctx)
}

// Create records a transaction. Without an explicit owner it is booked to the
// profile of the authorized caller on ctx.
func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (*entity.Transaction, error) {
	if in.ProfileID == 0 {
		if p, ok := PrincipalFromContext(ctx); ok && p.Profile != nil {
			in.ProfileID = p.Profile.ID
		}
	}
	if in.Amount <= 0 || in.ProfileID <= 0 || in.Type == "" {
		return nil, validationErr("monto, tipo and usuarioId are required")
	}
	if !entity.ValidTransactionType(in.Type) {
		return nil, validationErr(fmt.Sprintf("tipo must be %q or %q", entity.TransactionIncome, entity.TransactionExpense))
	}
	if _, err := s.Profiles.GetByID(ctx, in.ProfileID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("profile")
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	t := &entity.Transaction{Amount: in.Amount, Type: in.Type, ProfileID: in.ProfileID}
	if c := strings.TrimSpace(in.Concept); c != "" {
		t.Concept = &c
	}
	if in.Date != nil {
		t.Date = in.Date.UTC()
	} else {
		t.Date = s.now()
	}
	if err := s.Transactions.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, notFoundErr("profile")
		}
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

// ListByProfile returns one profile's transactions, newest first.
func (s *TransactionService) ListByProfile(ctx context.Context, profileID int64) ([]entity.Transaction, error) {
	if _, err := s.Profiles.GetByID(ctx, profileID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("profile")
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return s.Transactions.ListByProfile(ctx, profileID)
}

func (s *TransactionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
