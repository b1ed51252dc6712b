package verify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
)

type VerifyTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *VerifyTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestVerifyTestSuite(t *testing.T) {
	suite.Run(t, new(VerifyTestSuite))
}

func (s *VerifyTestSuite) TestLocal_NormalizedMatch() {
	local := NewLocal()

	cases := []struct {
		submitted string
		expected  string
		want      bool
	}{
		{"Paris", "paris", true},
		{"a keyboard!", "A Keyboard", true},
		{"42", "42", true},
		{"Lyon", "Paris", false},
		{"", "Paris", false},
	}

	for _, tc := range cases {
		got, err := local.Verify(s.ctx, tc.submitted, tc.expected)
		s.Require().NoError(err)
		s.Equal(tc.want, got, "%q vs %q", tc.submitted, tc.expected)
	}
}

// aiServer stubs the chat-completions endpoint with a fixed reply
func (s *VerifyTestSuite) aiServer(reply string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("application/json", r.Header.Get("Content-Type"))
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, reply)
	}))
}

func (s *VerifyTestSuite) TestAI_Yes() {
	server := s.aiServer("yes")
	defer server.Close()

	ai := NewAI(&AIConfig{Endpoint: server.URL})
	got, err := ai.Verify(s.ctx, "leonardo davinci", "Leonardo da Vinci")
	s.Require().NoError(err)
	s.True(got)
}

func (s *VerifyTestSuite) TestAI_No() {
	server := s.aiServer("No")
	defer server.Close()

	ai := NewAI(&AIConfig{Endpoint: server.URL})
	got, err := ai.Verify(s.ctx, "Michelangelo", "Leonardo da Vinci")
	s.Require().NoError(err)
	s.False(got)
}

func (s *VerifyTestSuite) TestAI_AmbiguousResponse() {
	server := s.aiServer("yes and no")
	defer server.Close()

	ai := NewAI(&AIConfig{Endpoint: server.URL})
	_, err := ai.Verify(s.ctx, "Paris", "Paris")
	s.ErrorIs(err, ErrAmbiguousResponse)
}

func (s *VerifyTestSuite) TestAI_EndpointError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ai := NewAI(&AIConfig{Endpoint: server.URL})
	_, err := ai.Verify(s.ctx, "Paris", "Paris")
	s.Error(err)
}

func (s *VerifyTestSuite) TestFallback_UsesSecondaryOnError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	chain := NewFallback(NewAI(&AIConfig{Endpoint: server.URL}), NewLocal())

	got, err := chain.Verify(s.ctx, "PARIS!", "Paris")
	s.Require().NoError(err)
	s.True(got)
}

func (s *VerifyTestSuite) TestFallback_PrimaryWins() {
	server := s.aiServer("yes")
	defer server.Close()

	chain := NewFallback(NewAI(&AIConfig{Endpoint: server.URL}), NewLocal())

	// the local verifier would reject this, the AI accepts it
	got, err := chain.Verify(s.ctx, "da vinci", "Leonardo da Vinci")
	s.Require().NoError(err)
	s.True(got)
}
