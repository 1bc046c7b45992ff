package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"

	"hicode-bloodlink/internal/pkg/response"
)

type ValidationSuite struct {
	suite.Suite
}

// postJSON sends a JSON body through a one-route fiber app and decodes the
// standard response envelope.
func (s *ValidationSuite) postJSON(handler fiber.Handler, setup func(*fiber.Ctx), body string) (int, *response.Response) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		if setup != nil {
			setup(c)
		}
		return handler(c)
	})

	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var envelope response.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, &envelope
}

func (s *ValidationSuite) TestRegisterReportsEveryMissingField() {
	handler := &AuthHandler{}
	status, envelope := s.postJSON(handler.Register, nil, `{"password":"short"}`)

	s.Equal(fiber.StatusBadRequest, status)
	s.False(envelope.Success)
	s.Equal("Invalid registration data", envelope.Error)
	s.Len(envelope.Errors, 3)
	s.Equal("Email is required", envelope.Errors["email"])
	s.Equal("Full name is required", envelope.Errors["full_name"])
	s.Equal("Password must be at least 8 characters", envelope.Errors["password"])
}

func (s *ValidationSuite) TestRegisterReportsOnlyFailingFields() {
	handler := &AuthHandler{}
	_, envelope := s.postJSON(handler.Register, nil, `{"email":"donor@example.com","full_name":"Test Donor"}`)

	s.Len(envelope.Errors, 1)
	s.Equal("Password is required", envelope.Errors["password"])
}

func (s *ValidationSuite) TestCreateRequestReportsEveryInvalidField() {
	handler := &BloodRequestHandler{}
	setup := func(c *fiber.Ctx) { c.Locals("userID", uint(42)) }
	status, envelope := s.postJSON(handler.Create, setup, `{"quantity_in_units":0,"urgency":"ASAP"}`)

	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("Invalid blood request data", envelope.Error)
	s.Len(envelope.Errors, 4)
	s.Equal("Patient name is required", envelope.Errors["patient_name"])
	s.Equal("Hospital is required", envelope.Errors["hospital"])
	s.Equal("Quantity must be greater than zero", envelope.Errors["quantity_in_units"])
	s.Equal("Urgency must be NORMAL, URGENT or CRITICAL", envelope.Errors["urgency"])
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationSuite))
}
