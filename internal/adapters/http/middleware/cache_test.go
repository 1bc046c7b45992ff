package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type CacheHeadersSuite struct {
	suite.Suite
}

func (s *CacheHeadersSuite) TestNoCacheHeadersForbidStoring() {
	app := fiber.New()
	app.Use(NoCacheHeaders())
	app.Post("/login", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"access_token": "secret"})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	s.Require().NoError(err)

	s.Equal("no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))
	s.Equal("no-cache", resp.Header.Get("Pragma"))
	s.Equal("0", resp.Header.Get("Expires"))
}

func (s *CacheHeadersSuite) TestCacheControlOnlyOnSuccessfulGets() {
	app := fiber.New()
	app.Use(CacheControl(time.Hour))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	s.Require().NoError(err)
	s.Equal("public, max-age=3600", resp.Header.Get("Cache-Control"))

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	s.Require().NoError(err)
	s.Empty(resp.Header.Get("Cache-Control"))
}

func TestCacheHeadersSuite(t *testing.T) {
	suite.Run(t, new(CacheHeadersSuite))
}
