package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type PaginationSuite struct {
	suite.Suite
}

// paramsFor runs GetParams against a request with the given query string.
func (s *PaginationSuite) paramsFor(query string) *Params {
	app := fiber.New()
	var got *Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/?"+query, nil)
	resp, err := app.Test(req)
	s.Require().NoError(err)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	return got
}

func (s *PaginationSuite) TestDefaults() {
	p := s.paramsFor("")
	s.Equal(0, p.Page)
	s.Equal(DefaultSize, p.Size)
	s.Equal("", p.Sort)
	s.Equal(0, p.Offset)
}

func (s *PaginationSuite) TestExplicitParams() {
	p := s.paramsFor("page=2&size=10&sort=created_at,desc")
	s.Equal(2, p.Page)
	s.Equal(10, p.Size)
	s.Equal("created_at,desc", p.Sort)
	s.Equal(20, p.Offset)
}

func (s *PaginationSuite) TestClamping() {
	p := s.paramsFor("page=-3&size=0")
	s.Equal(0, p.Page)
	s.Equal(DefaultSize, p.Size)

	p = s.paramsFor("size=1000")
	s.Equal(MaxSize, p.Size)
}

func (s *PaginationSuite) TestOrderClause() {
	allowed := map[string]string{
		"created_at": "created_at",
		"full_name":  "full_name",
	}

	cases := []struct {
		name string
		sort string
		want string
	}{
		{"empty falls back", "", "created_at desc"},
		{"bare field defaults asc", "full_name", "full_name asc"},
		{"explicit desc", "created_at,desc", "created_at desc"},
		{"direction case-insensitive", "full_name,DESC", "full_name desc"},
		{"unknown direction defaults asc", "full_name,sideways", "full_name asc"},
		{"unlisted column falls back", "password_hash,desc", "created_at desc"},
		{"whitespace tolerated", " full_name , desc ", "full_name desc"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			p := &Params{Sort: tc.sort}
			s.Equal(tc.want, p.OrderClause(allowed, "created_at desc"))
		})
	}
}

func (s *PaginationSuite) TestNewPage() {
	params := &Params{Page: 0, Size: 10}
	page := NewPage([]string{"a", "b"}, params, 25)
	s.Equal(int64(25), page.TotalElements)
	s.Equal(3, page.TotalPages)
	s.True(page.HasNext)
	s.False(page.HasPrev)

	params = &Params{Page: 2, Size: 10}
	page = NewPage([]string{}, params, 25)
	s.False(page.HasNext)
	s.True(page.HasPrev)

	// Exact multiple does not round up
	page = NewPage(nil, &Params{Page: 0, Size: 10}, 20)
	s.Equal(2, page.TotalPages)
}

func TestPaginationSuite(t *testing.T) {
	suite.Run(t, new(PaginationSuite))
}
