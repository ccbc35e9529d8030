package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/repository"
	"github.com/iliyamo/hall-booking/internal/timerange"
)

type hallsMock struct{ mock.Mock }

func (m *hallsMock) ResolveID(ctx context.Context, name string) (uint64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(uint64), args.Error(1)
}

type overlapMock struct{ mock.Mock }

func (m *overlapMock) FindOverlapping(ctx context.Context, hallID uint64, rng timerange.Range) ([]model.ConflictEntry, error) {
	args := m.Called(ctx, hallID, rng)
	entries, _ := args.Get(0).([]model.ConflictEntry)
	return entries, args.Error(1)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := timerange.ParseDate(s)
	require.NoError(t, err)
	return d
}

func strPtr(s string) *string { return &s }

func TestCheck_ReportsClashes(t *testing.T) {
	halls := &hallsMock{}
	halls.On("ResolveID", mock.Anything, "Lab A").Return(uint64(4), nil)
	finder := &overlapMock{}
	finder.On("FindOverlapping", mock.Anything, uint64(4), mock.AnythingOfType("timerange.Range")).Return([]model.ConflictEntry{{
		HallID: 4, HallName: "Lab A", Date: "2024-06-01", StartTime: "09:00:00", EndTime: "10:00:00",
		Type: model.BookingLecture, ModuleCode: strPtr("EE2201"),
	}}, nil)

	a, err := NewAvailabilityChecker(halls, finder).Check(context.Background(),
		AvailabilityQuery{HallName: "Lab A", Date: "2024-06-01", StartTime: "09:30", EndTime: "10:30"})
	require.NoError(t, err)
	assert.False(t, a.Available)
	assert.Equal(t, []Clash{{Date: "2024-06-01", StartTime: "09:00:00", EndTime: "10:00:00", Type: "Lecture", Name: "EE2201"}}, a.Clashes)
	finder.AssertExpectations(t)
}

func TestCheck_Available(t *testing.T) {
	halls := &hallsMock{}
	halls.On("ResolveID", mock.Anything, "Lab A").Return(uint64(4), nil)
	finder := &overlapMock{}
	finder.On("FindOverlapping", mock.Anything, uint64(4), mock.Anything).Return(nil, nil)

	checker := NewAvailabilityChecker(halls, finder)
	q := AvailabilityQuery{HallName: "Lab A", Date: "2024-06-01", StartTime: "10:00", EndTime: "11:00"}
	first, err := checker.Check(context.Background(), q)
	require.NoError(t, err)
	second, err := checker.Check(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, Availability{Available: true}, first)
	assert.Equal(t, first, second)
}

func TestCheck_Errors(t *testing.T) {
	halls := &hallsMock{}
	halls.On("ResolveID", mock.Anything, "Nowhere").Return(uint64(0), repository.ErrHallNotFound)
	halls.On("ResolveID", mock.Anything, "Broken").Return(uint64(0), errors.New("db down"))
	halls.On("ResolveID", mock.Anything, "Lab A").Return(uint64(4), nil)
	finder := &overlapMock{}
	checker := NewAvailabilityChecker(halls, finder)
	ctx := context.Background()

	_, err := checker.Check(ctx, AvailabilityQuery{HallName: "Nowhere", Date: "2024-06-01", StartTime: "10:00", EndTime: "11:00"})
	assert.ErrorIs(t, err, ErrHallNotFound)

	_, err = checker.Check(ctx, AvailabilityQuery{HallName: "Broken", Date: "2024-06-01", StartTime: "10:00", EndTime: "11:00"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrHallNotFound)

	_, err = checker.Check(ctx, AvailabilityQuery{HallName: "Lab A", Date: "2024-06-01", StartTime: "11:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, timerange.ErrInvalidTimeRange)

	_, err = checker.Check(ctx, AvailabilityQuery{HallName: "Lab A", Date: "2024-06-01", StartTime: "10:10", EndTime: "11:00"})
	assert.ErrorIs(t, err, timerange.ErrInvalidTimeGranularity)

	_, err = checker.Check(ctx, AvailabilityQuery{HallName: "Lab A", Date: "01/06/2024", StartTime: "10:00", EndTime: "11:00"})
	assert.ErrorIs(t, err, timerange.ErrInvalidDate)

	finder.AssertNotCalled(t, "FindOverlapping", mock.Anything, mock.Anything, mock.Anything)
}
