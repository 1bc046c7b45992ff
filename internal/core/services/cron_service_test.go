package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ReminderWindowSuite struct {
	suite.Suite
}

func (s *ReminderWindowSuite) TestWindowCoversTomorrow() {
	now := time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC)
	from, to := reminderWindow(now)

	s.Equal(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), from)
	s.Equal(time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC), to)
}

func (s *ReminderWindowSuite) TestAppointmentLaterTodayIsOutside() {
	now := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)
	from, _ := reminderWindow(now)

	tonight := time.Date(2026, time.March, 14, 21, 30, 0, 0, time.UTC)
	s.True(tonight.Before(from))
}

func (s *ReminderWindowSuite) TestWindowCrossesMonthBoundary() {
	now := time.Date(2026, time.January, 31, 23, 59, 0, 0, time.UTC)
	from, to := reminderWindow(now)

	s.Equal(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), from)
	s.Equal(time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC), to)
}

func TestReminderWindowSuite(t *testing.T) {
	suite.Run(t, new(ReminderWindowSuite))
}
