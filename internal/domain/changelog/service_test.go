package changelog_test

import (
	"context"
	"testing"

	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChangeLogService_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	employee := "E1001"

	repo := &mocks.ChangeLogRepository{}
	entry := &changelog.Entry{
		Type:    changelog.TypeEventCreated,
		Summary: "created",
	}

	repo.On("Log", ctx, employee, entry).Return(nil)
	repo.On("List", ctx, employee, changelog.ListOptions{Limit: 50}).Return([]changelog.Entry{*entry}, nil)

	svc := changelog.NewService(repo, nil)
	require.NoError(t, svc.Record(ctx, employee, entry))
	require.Equal(t, employee, entry.EmployeeNumber)
	require.False(t, entry.CreatedAt.IsZero())

	list, err := svc.Recent(ctx, employee, changelog.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	repo.AssertExpectations(t)
}

func TestChangeLogService_RecordRejectsMissingEmployee(t *testing.T) {
	repo := &mocks.ChangeLogRepository{}
	svc := changelog.NewService(repo, nil)

	err := svc.Record(context.Background(), " ", &changelog.Entry{Type: changelog.TypeWeekSaved})
	require.ErrorIs(t, err, changelog.ErrInvalidInput)
	repo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything, mock.Anything)
}
