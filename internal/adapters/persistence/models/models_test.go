package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BloodRequestResponseSuite struct {
	suite.Suite
}

func (s *BloodRequestResponseSuite) request() *BloodRequest {
	dob := time.Date(1990, 2, 1, 0, 0, 0, 0, time.UTC)
	return &BloodRequest{
		ID:              9,
		PatientName:     "Patient",
		Hospital:        "District Hospital",
		BloodTypeID:     1,
		QuantityInUnits: 2,
		Urgency:         UrgencyUrgent,
		Status:          "PENDING",
		Pledges: []DonationPledge{
			{
				ID:        4,
				DonorID:   42,
				ProcessID: 7,
				Donor: &User{
					ID:          42,
					Email:       "donor@example.com",
					Phone:       "0912345678",
					Address:     "12 Hidden Lane",
					DateOfBirth: &dob,
					FullName:    "Test Donor",
				},
			},
		},
	}
}

// Request detail is readable without a login, so the pledge list must not
// expose what the donor record carries beyond a display name.
func (s *BloodRequestResponseSuite) TestPledgesCarryNoDonorContactDetails() {
	raw, err := json.Marshal(s.request().ToResponse())
	s.Require().NoError(err)

	s.NotContains(string(raw), "donor@example.com")
	s.NotContains(string(raw), "0912345678")
	s.NotContains(string(raw), "12 Hidden Lane")
	s.NotContains(string(raw), "1990-02-01")

	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(raw, &body))

	pledges, ok := body["pledges"].([]interface{})
	s.Require().True(ok)
	s.Require().Len(pledges, 1)

	pledge := pledges[0].(map[string]interface{})
	s.Equal("Test Donor", pledge["donor_name"])
	s.Equal(float64(7), pledge["process_id"])
	s.NotContains(pledge, "donor")
	s.NotContains(pledge, "donor_id")
}

func (s *BloodRequestResponseSuite) TestPledgeCountAndReadiness() {
	request := s.request()
	resp := request.ToResponse()
	s.Equal(1, resp.PledgeCount)
	s.False(resp.ReadyToFulfill)

	request.Pledges = append(request.Pledges, DonationPledge{ID: 5, DonorID: 43, ProcessID: 8})
	resp = request.ToResponse()
	s.Equal(2, resp.PledgeCount)
	s.True(resp.ReadyToFulfill)
}

func TestBloodRequestResponseSuite(t *testing.T) {
	suite.Run(t, new(BloodRequestResponseSuite))
}
