package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type WorkflowSuite struct {
	suite.Suite
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) TestDonationTransitionTable() {
	s.Run("pending approval branches to approve or reject", func() {
		s.True(CanTransitionDonation(DonationPendingApproval, DonationAppointmentPending))
		s.True(CanTransitionDonation(DonationPendingApproval, DonationRejected))
		s.False(CanTransitionDonation(DonationPendingApproval, DonationBloodCollected))
		s.False(CanTransitionDonation(DonationPendingApproval, DonationCompleted))
	})

	s.Run("blood collected only reaches the testing outcomes", func() {
		targets := map[DonationStatus]bool{}
		for _, t := range DonationTransitions(DonationBloodCollected) {
			targets[t.Target] = true
		}
		s.Equal(map[DonationStatus]bool{
			DonationTestingPassed: true,
			DonationTestingFailed: true,
		}, targets)
	})

	s.Run("health check branches from a scheduled appointment", func() {
		s.True(CanTransitionDonation(DonationAppointmentScheduled, DonationHealthCheckPassed))
		s.True(CanTransitionDonation(DonationAppointmentScheduled, DonationHealthCheckFailed))
		s.False(CanTransitionDonation(DonationAppointmentScheduled, DonationCompleted))
	})

	s.Run("no transition skips a stage", func() {
		s.False(CanTransitionDonation(DonationAppointmentPending, DonationHealthCheckPassed))
		s.False(CanTransitionDonation(DonationHealthCheckPassed, DonationTestingPassed))
		s.False(CanTransitionDonation(DonationPendingApproval, DonationAppointmentScheduled))
	})
}

func (s *WorkflowSuite) TestTerminalStatuses() {
	terminal := []DonationStatus{
		DonationRejected,
		DonationCompleted,
		DonationHealthCheckFailed,
		DonationTestingFailed,
	}
	for _, status := range terminal {
		s.True(IsTerminalDonation(status), "%s should be terminal", status)
		s.Nil(DonationTransitions(status))
	}

	s.False(IsTerminalDonation(DonationPendingApproval))
	s.False(IsTerminalDonation(DonationBloodCollected))
}

func (s *WorkflowSuite) TestTransitionGuardIsIdempotent() {
	// A repeated submission of the same transition re-arrives with the
	// process already moved, so the guard must refuse it.
	s.True(CanTransitionDonation(DonationPendingApproval, DonationAppointmentPending))
	s.False(CanTransitionDonation(DonationAppointmentPending, DonationAppointmentPending))

	s.True(CanTransitionDonation(DonationBloodCollected, DonationTestingFailed))
	s.False(CanTransitionDonation(DonationTestingFailed, DonationTestingFailed))
}

func (s *WorkflowSuite) TestGenericProcessLifecycle() {
	s.True(CanTransitionProcess(ProcessPending, ProcessApproved))
	s.True(CanTransitionProcess(ProcessPending, ProcessRejected))
	s.True(CanTransitionProcess(ProcessApproved, ProcessInProgress))
	s.True(CanTransitionProcess(ProcessInProgress, ProcessCompleted))
	s.True(CanTransitionProcess(ProcessInProgress, ProcessPaused))
	s.True(CanTransitionProcess(ProcessPaused, ProcessInProgress))
	s.True(CanTransitionProcess(ProcessPaused, ProcessCancelled))

	s.False(CanTransitionProcess(ProcessCompleted, ProcessInProgress))
	s.False(CanTransitionProcess(ProcessCancelled, ProcessInProgress))
	s.False(CanTransitionProcess(ProcessRejected, ProcessApproved))
	s.False(CanTransitionProcess(ProcessPending, ProcessCompleted))

	s.ElementsMatch([]string{"resume", "cancel"}, ProcessActions(ProcessPaused))
	s.Nil(ProcessActions(ProcessCompleted))
}

func (s *WorkflowSuite) TestRequestTransitions() {
	s.True(CanTransitionRequest(RequestPending, RequestFulfilled))
	s.True(CanTransitionRequest(RequestPending, RequestCancelled))
	// Legacy synonym accepted as a target.
	s.True(CanTransitionRequest(RequestPending, RequestCompleted))

	s.False(CanTransitionRequest(RequestFulfilled, RequestCancelled))
	s.False(CanTransitionRequest(RequestCancelled, RequestFulfilled))
	s.False(CanTransitionRequest(RequestCompleted, RequestCancelled))
}

func (s *WorkflowSuite) TestRequestStatusText() {
	s.Equal("Fulfilled", RequestStatusText(RequestFulfilled))
	s.Equal("Fulfilled", RequestStatusText(RequestCompleted))
	s.Equal("Pending", RequestStatusText(RequestPending))
	s.Equal("Cancelled", RequestStatusText(RequestCancelled))
}

func (s *WorkflowSuite) TestReadyToFulfill() {
	s.True(ReadyToFulfill(RequestPending, 3, 3))
	s.True(ReadyToFulfill(RequestPending, 5, 3))
	s.False(ReadyToFulfill(RequestPending, 2, 3))
	s.False(ReadyToFulfill(RequestFulfilled, 5, 3))
	s.False(ReadyToFulfill(RequestCancelled, 5, 3))
	s.False(ReadyToFulfill(RequestPending, 0, 1))
}
