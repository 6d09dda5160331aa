// Package access provides customer blocklist and staff checks.
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// BlockedCustomer is a customer banned from booking.
type BlockedCustomer struct {
	CustomerID int64     `json:"customer_id"`
	Reason     string    `json:"reason,omitempty"`
	BlockedBy  int64     `json:"blocked_by"`
	BlockedAt  time.Time `json:"blocked_at"`
}

// BlocklistRepository provides access to the customer blocklist.
type BlocklistRepository interface {
	IsBlocked(ctx context.Context, customerID int64) (bool, error)
	GetBlockedCustomer(ctx context.Context, customerID int64) (*BlockedCustomer, error)
	BlockCustomer(ctx context.Context, customerID int64, reason string, blockedBy int64) error
	UnblockCustomer(ctx context.Context, customerID int64) error
	ListBlockedCustomers(ctx context.Context) ([]BlockedCustomer, error)
}

// StaffRepository answers whether an ID belongs to facility staff.
type StaffRepository interface {
	IsStaff(ctx context.Context, staffID int64) (bool, error)
}

// Service implements access control for the booking platform.
type Service struct {
	blocklist BlocklistRepository
	staff     StaffRepository
	logger    zerolog.Logger
}

// NewService creates a new access control service.
func NewService(blocklist BlocklistRepository, staff StaffRepository, logger zerolog.Logger) *Service {
	return &Service{
		blocklist: blocklist,
		staff:     staff,
		logger:    logger.With().Str("component", "access").Logger(),
	}
}

// IsBlocked checks if a customer is in the blocklist.
func (s *Service) IsBlocked(ctx context.Context, customerID int64) (bool, error) {
	return s.blocklist.IsBlocked(ctx, customerID)
}

// BlockCustomer adds a customer to the blocklist. Only staff may block.
func (s *Service) BlockCustomer(ctx context.Context, customerID int64, reason string, blockedBy int64) error {
	isStaff, err := s.staff.IsStaff(ctx, blockedBy)
	if err != nil {
		return fmt.Errorf("checking staff status: %w", err)
	}
	if !isStaff {
		return fmt.Errorf("user %d is not staff", blockedBy)
	}

	if err := s.blocklist.BlockCustomer(ctx, customerID, reason, blockedBy); err != nil {
		return err
	}

	s.logger.Info().
		Int64("customer_id", customerID).
		Int64("blocked_by", blockedBy).
		Str("reason", reason).
		Msg("customer blocked")

	return nil
}

// UnblockCustomer removes a customer from the blocklist.
func (s *Service) UnblockCustomer(ctx context.Context, customerID int64) error {
	if err := s.blocklist.UnblockCustomer(ctx, customerID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("customer_id", customerID).
		Msg("customer unblocked")

	return nil
}

// ListBlockedCustomers returns the full blocklist.
func (s *Service) ListBlockedCustomers(ctx context.Context) ([]BlockedCustomer, error) {
	return s.blocklist.ListBlockedCustomers(ctx)
}

// CanBook checks whether a customer may create reserves.
// Returns false with a reason when blocked.
func (s *Service) CanBook(ctx context.Context, customerID int64) (bool, string, error) {
	blocked, err := s.blocklist.GetBlockedCustomer(ctx, customerID)
	if err != nil {
		return false, "", fmt.Errorf("checking blocklist: %w", err)
	}
	if blocked != nil {
		reason := "customer is blocked"
		if blocked.Reason != "" {
			reason = fmt.Sprintf("customer is blocked: %s", blocked.Reason)
		}
		return false, reason, nil
	}
	return true, "", nil
}

// AccessDeniedError is returned when a customer may not book.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return e.Reason
}

// IsAccessDenied checks if err is an access denial.
func IsAccessDenied(err error) bool {
	_, ok := err.(*AccessDeniedError)
	return ok
}
