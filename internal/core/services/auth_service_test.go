package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type AuthResponseSuite struct {
	suite.Suite
}

// Older clients read "token", newer ones "access_token"; both must carry
// the same value until the old field is retired.
func (s *AuthResponseSuite) TestLegacyTokenFieldDuality() {
	resp := &AuthResponse{
		AccessToken:  "jwt-value",
		LegacyToken:  "jwt-value",
		RefreshToken: "refresh-value",
	}

	raw, err := json.Marshal(resp)
	s.Require().NoError(err)

	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(raw, &body))

	s.Equal("jwt-value", body["access_token"])
	s.Equal("jwt-value", body["token"])
	s.Equal(body["access_token"], body["token"])
	s.Equal("refresh-value", body["refresh_token"])
}

func TestAuthResponseSuite(t *testing.T) {
	suite.Run(t, new(AuthResponseSuite))
}
