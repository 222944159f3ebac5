package e2e

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testRoundTripSuite struct {
	BaseHTTPSuite
}

func TestRoundTripSuite(t *testing.T) {
	suite.Run(t, &testRoundTripSuite{})
}

func (s *testRoundTripSuite) TestSendThenRead() {
	content := fmt.Sprintf("e2e round trip %s", uuid.NewString())

	s.Run("Step 1: Send a message", func() {
		s.WithRelay("Send into the e2e room", func(ctx context.Context, client *AgentClient) {
			tx, err := client.Send(ctx, s.Config.Room, content)
			s.Require().NoError(err)
			s.Require().NotEmpty(tx)
		})
	})

	s.Run("Step 2: The room is connected", func() {
		s.WithRelay("List rooms", func(ctx context.Context, client *AgentClient) {
			rooms, err := client.Rooms(ctx)
			s.Require().NoError(err)
			s.Require().Contains(rooms, s.Config.Room)
		})
	})

	s.Run("Step 3: The message can be read back", func() {
		s.WithRelay("Poll until visible", func(ctx context.Context, client *AgentClient) {
			message, err := client.AwaitContent(ctx, s.Config.Room, content, s.Config.PollInterval)
			s.Require().NoError(err)
			s.Require().Equal(s.Config.Room, message.Room)
			s.Require().NotEmpty(message.ID)
		})
	})
}
