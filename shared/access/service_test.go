package access

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBlocklist struct {
	mock.Mock
}

func (m *mockBlocklist) IsBlocked(ctx context.Context, customerID int64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBlocklist) GetBlockedCustomer(ctx context.Context, customerID int64) (*BlockedCustomer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BlockedCustomer), args.Error(1)
}

func (m *mockBlocklist) BlockCustomer(ctx context.Context, customerID int64, reason string, blockedBy int64) error {
	args := m.Called(ctx, customerID, reason, blockedBy)
	return args.Error(0)
}

func (m *mockBlocklist) UnblockCustomer(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *mockBlocklist) ListBlockedCustomers(ctx context.Context) ([]BlockedCustomer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BlockedCustomer), args.Error(1)
}

type mockStaff struct {
	mock.Mock
}

func (m *mockStaff) IsStaff(ctx context.Context, staffID int64) (bool, error) {
	args := m.Called(ctx, staffID)
	return args.Bool(0), args.Error(1)
}

func newTestService() (*Service, *mockBlocklist, *mockStaff) {
	blocklist := new(mockBlocklist)
	staff := new(mockStaff)
	return NewService(blocklist, staff, zerolog.Nop()), blocklist, staff
}

func TestCanBook(t *testing.T) {
	svc, blocklist, _ := newTestService()
	ctx := context.Background()

	t.Run("Allowed", func(t *testing.T) {
		blocklist.On("GetBlockedCustomer", ctx, int64(1)).Return(nil, nil).Once()

		ok, reason, err := svc.CanBook(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("BlockedWithReason", func(t *testing.T) {
		blocklist.On("GetBlockedCustomer", ctx, int64(2)).Return(&BlockedCustomer{
			CustomerID: 2, Reason: "no-show",
		}, nil).Once()

		ok, reason, err := svc.CanBook(ctx, 2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "customer is blocked: no-show", reason)
	})

	t.Run("BlockedWithoutReason", func(t *testing.T) {
		blocklist.On("GetBlockedCustomer", ctx, int64(3)).Return(&BlockedCustomer{CustomerID: 3}, nil).Once()

		ok, reason, err := svc.CanBook(ctx, 3)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "customer is blocked", reason)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		blocklist.On("GetBlockedCustomer", ctx, int64(4)).Return(nil, errors.New("db down")).Once()

		_, _, err := svc.CanBook(ctx, 4)
		assert.Error(t, err)
	})
}

func TestBlockCustomer(t *testing.T) {
	svc, blocklist, staff := newTestService()
	ctx := context.Background()

	t.Run("StaffMayBlock", func(t *testing.T) {
		staff.On("IsStaff", ctx, int64(100)).Return(true, nil).Once()
		blocklist.On("BlockCustomer", ctx, int64(5), "abuse", int64(100)).Return(nil).Once()

		err := svc.BlockCustomer(ctx, 5, "abuse", 100)
		assert.NoError(t, err)
		blocklist.AssertExpectations(t)
	})

	t.Run("NonStaffRejected", func(t *testing.T) {
		staff.On("IsStaff", ctx, int64(200)).Return(false, nil).Once()

		err := svc.BlockCustomer(ctx, 5, "abuse", 200)
		assert.Error(t, err)
		blocklist.AssertNotCalled(t, "BlockCustomer", ctx, int64(5), "abuse", int64(200))
	})
}

func TestIsAccessDenied(t *testing.T) {
	assert.True(t, IsAccessDenied(&AccessDeniedError{Reason: "blocked"}))
	assert.False(t, IsAccessDenied(errors.New("other")))
}
