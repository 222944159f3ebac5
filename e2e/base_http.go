package e2e

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	Client *AgentClient
}

// SetupSuite loads the environment configuration and skips when no relay is running.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayAddr == "" {
		s.T().Skip("E2E_RELAY_ADDR not set")
	}
	s.Client = NewAgentClient(s.Config, s.T().Logf)
}

// WithRelay runs fn within a titled step bounded by the configured timeout.
func (s *BaseHTTPSuite) WithRelay(name string, fn func(ctx context.Context, client *AgentClient)) {
	s.Client.Header(name)
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()
	fn(ctx, s.Client)
}

func (s *BaseHTTPSuite) timeout() time.Duration {
	if s.Config.Timeout <= 0 {
		return 30 * time.Second
	}
	return s.Config.Timeout
}
