package domain

// DonationStatus is the status of a donation process.
type DonationStatus string

const (
	DonationPendingApproval      DonationStatus = "PENDING_APPROVAL"
	DonationRejected             DonationStatus = "REJECTED"
	DonationAppointmentPending   DonationStatus = "APPOINTMENT_PENDING"
	DonationAppointmentScheduled DonationStatus = "APPOINTMENT_SCHEDULED"
	DonationHealthCheckPassed    DonationStatus = "HEALTH_CHECK_PASSED"
	DonationHealthCheckFailed    DonationStatus = "HEALTH_CHECK_FAILED"
	DonationBloodCollected       DonationStatus = "BLOOD_COLLECTED"
	DonationTestingPassed        DonationStatus = "TESTING_PASSED"
	DonationTestingFailed        DonationStatus = "TESTING_FAILED"
	DonationCompleted            DonationStatus = "COMPLETED"
)

// DonationType distinguishes walk-in donations from emergency pledges.
type DonationType string

const (
	DonationTypeStandard  DonationType = "STANDARD"
	DonationTypeEmergency DonationType = "EMERGENCY"
)

// Transition is one legal step out of a status: the action a staff member
// takes and the status it lands on. Handlers render exactly these actions
// and nothing else; services refuse any target not in the table.
type Transition struct {
	Action string
	Target DonationStatus
}

// donationTransitions is the full donation workflow. A status missing from
// the map (or mapped to an empty slice) is terminal.
var donationTransitions = map[DonationStatus][]Transition{
	DonationPendingApproval: {
		{Action: "approve", Target: DonationAppointmentPending},
		{Action: "reject", Target: DonationRejected},
	},
	DonationAppointmentPending: {
		{Action: "schedule_appointment", Target: DonationAppointmentScheduled},
	},
	DonationAppointmentScheduled: {
		{Action: "health_check_pass", Target: DonationHealthCheckPassed},
		{Action: "health_check_fail", Target: DonationHealthCheckFailed},
	},
	DonationHealthCheckPassed: {
		{Action: "collect_blood", Target: DonationBloodCollected},
	},
	DonationBloodCollected: {
		{Action: "testing_pass", Target: DonationTestingPassed},
		{Action: "testing_fail", Target: DonationTestingFailed},
	},
	// TESTING_PASSED is folded into COMPLETED by the test-result operation:
	// a safe result moves the unit into inventory and completes the process.
	DonationTestingPassed: {
		{Action: "complete", Target: DonationCompleted},
	},
}

// DonationTransitions returns the legal transitions out of a status.
// Terminal statuses return nil.
func DonationTransitions(from DonationStatus) []Transition {
	transitions := donationTransitions[from]
	if len(transitions) == 0 {
		return nil
	}
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

// CanTransitionDonation reports whether from → to is in the workflow table.
func CanTransitionDonation(from, to DonationStatus) bool {
	for _, t := range donationTransitions[from] {
		if t.Target == to {
			return true
		}
	}
	return false
}

// IsTerminalDonation reports whether a donation status has no way out.
func IsTerminalDonation(status DonationStatus) bool {
	return len(donationTransitions[status]) == 0
}

// ProcessStatus is the generic status vocabulary used by the admin
// donation-history list view.
type ProcessStatus string

const (
	ProcessPending    ProcessStatus = "PENDING"
	ProcessApproved   ProcessStatus = "APPROVED"
	ProcessRejected   ProcessStatus = "REJECTED"
	ProcessInProgress ProcessStatus = "IN_PROGRESS"
	ProcessPaused     ProcessStatus = "PAUSED"
	ProcessCompleted  ProcessStatus = "COMPLETED"
	ProcessCancelled  ProcessStatus = "CANCELLED"
)

// processTransition mirrors Transition over the generic vocabulary.
type processTransition struct {
	Action string
	Target ProcessStatus
}

// genericTransitions models the coarse-grained lifecycle with the explicit
// pause/resume pair. REJECTED, COMPLETED and CANCELLED are terminal.
var genericTransitions = map[ProcessStatus][]processTransition{
	ProcessPending: {
		{Action: "approve", Target: ProcessApproved},
		{Action: "reject", Target: ProcessRejected},
	},
	ProcessApproved: {
		{Action: "start", Target: ProcessInProgress},
	},
	ProcessInProgress: {
		{Action: "complete", Target: ProcessCompleted},
		{Action: "pause", Target: ProcessPaused},
	},
	ProcessPaused: {
		{Action: "resume", Target: ProcessInProgress},
		{Action: "cancel", Target: ProcessCancelled},
	},
}

// CanTransitionProcess reports whether from → to is legal in the generic
// process lifecycle.
func CanTransitionProcess(from, to ProcessStatus) bool {
	for _, t := range genericTransitions[from] {
		if t.Target == to {
			return true
		}
	}
	return false
}

// ProcessActions returns the action names available from a generic status.
func ProcessActions(from ProcessStatus) []string {
	transitions := genericTransitions[from]
	if len(transitions) == 0 {
		return nil
	}
	actions := make([]string, 0, len(transitions))
	for _, t := range transitions {
		actions = append(actions, t.Action)
	}
	return actions
}

// RequestStatus is the status of an emergency blood request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestFulfilled RequestStatus = "FULFILLED"
	RequestCancelled RequestStatus = "CANCELLED"
	// RequestCompleted is a legacy synonym some clients send for FULFILLED.
	RequestCompleted RequestStatus = "COMPLETED"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending: {RequestFulfilled, RequestCancelled},
}

// NormalizeRequestStatus collapses the legacy COMPLETED synonym to FULFILLED.
func NormalizeRequestStatus(status RequestStatus) RequestStatus {
	if status == RequestCompleted {
		return RequestFulfilled
	}
	return status
}

// CanTransitionRequest reports whether from → to is legal for an emergency
// request. The COMPLETED synonym is normalized before the check.
func CanTransitionRequest(from, to RequestStatus) bool {
	to = NormalizeRequestStatus(to)
	for _, target := range requestTransitions[NormalizeRequestStatus(from)] {
		if target == to {
			return true
		}
	}
	return false
}

// RequestStatusText returns the display text for a request status,
// treating COMPLETED as FULFILLED.
func RequestStatusText(status RequestStatus) string {
	switch NormalizeRequestStatus(status) {
	case RequestPending:
		return "Pending"
	case RequestFulfilled:
		return "Fulfilled"
	case RequestCancelled:
		return "Cancelled"
	default:
		return string(status)
	}
}

// ReadyToFulfill reports whether an emergency request has gathered enough
// pledges to cover the requested units. It is a derived condition, never a
// stored status: staff may still fulfill a request before it is ready.
func ReadyToFulfill(status RequestStatus, pledgeCount, quantityInUnits int) bool {
	return NormalizeRequestStatus(status) == RequestPending && pledgeCount >= quantityInUnits
}
