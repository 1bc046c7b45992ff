package jwt

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret-key-for-unit-tests"

type JWTSuite struct {
	suite.Suite
}

func (s *JWTSuite) TestAccessTokenRoundTrip() {
	token, err := GenerateAccessToken(42, "donor@example.com", "Test Donor", 2, testSecret, 15)
	s.Require().NoError(err)
	s.NotEmpty(token)

	claims, err := ValidateAccessToken(token, testSecret)
	s.Require().NoError(err)
	s.Equal(uint(42), claims.UserID)
	s.Equal("donor@example.com", claims.Email)
	s.Equal("Test Donor", claims.FullName)
	s.Equal(2, claims.RoleID)
	s.Equal("hicode-bloodlink", claims.Issuer)
}

func (s *JWTSuite) TestAccessTokenWrongSecret() {
	token, err := GenerateAccessToken(42, "donor@example.com", "Test Donor", 2, testSecret, 15)
	s.Require().NoError(err)

	_, err = ValidateAccessToken(token, "some-other-secret")
	s.ErrorIs(err, ErrTokenInvalid)
}

func (s *JWTSuite) TestAccessTokenExpired() {
	token, err := GenerateAccessToken(42, "donor@example.com", "Test Donor", 2, testSecret, -5)
	s.Require().NoError(err)

	_, err = ValidateAccessToken(token, testSecret)
	s.ErrorIs(err, ErrTokenExpired)
}

func (s *JWTSuite) TestAccessTokenGarbage() {
	_, err := ValidateAccessToken("not.a.token", testSecret)
	s.ErrorIs(err, ErrTokenInvalid)
}

func (s *JWTSuite) TestRefreshTokenRoundTrip() {
	token, err := GenerateRefreshToken(42, "token-id-abc", testSecret, 7)
	s.Require().NoError(err)

	claims, err := ValidateRefreshToken(token, testSecret)
	s.Require().NoError(err)
	s.Equal(uint(42), claims.UserID)
	s.Equal("token-id-abc", claims.TokenID)
}

func (s *JWTSuite) TestRefreshTokenWrongSecret() {
	token, err := GenerateRefreshToken(42, "token-id-abc", testSecret, 7)
	s.Require().NoError(err)

	_, err = ValidateRefreshToken(token, "some-other-secret")
	s.ErrorIs(err, ErrTokenInvalid)
}

func (s *JWTSuite) TestAccessTokenRejectedAsRefreshClaims() {
	// Access and refresh tokens share the signing scheme but not the
	// claim shape; a refresh validation must not accept an access token
	// that carries no token_id.
	token, err := GenerateAccessToken(42, "donor@example.com", "Test Donor", 2, testSecret, 15)
	s.Require().NoError(err)

	claims, err := ValidateRefreshToken(token, testSecret)
	if err == nil {
		s.Empty(claims.TokenID)
	}
}

func TestJWTSuite(t *testing.T) {
	suite.Run(t, new(JWTSuite))
}
