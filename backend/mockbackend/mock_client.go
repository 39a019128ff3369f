package mockbackend

import (
	"context"

	"github.com/nicoavayu/Armado-Equipos-sub001/backend"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (c *Client) ComputeAwards(ctx context.Context, matchID int64) (*model.AwardSummary, error) {
	args := c.Called(ctx, matchID)

	var s *model.AwardSummary
	if args.Get(0) != nil {
		s = args.Get(0).(*model.AwardSummary)
	}
	return s, args.Error(1)
}

func (c *Client) EnqueueFanout(ctx context.Context, req *backend.FanoutRequest) error {
	args := c.Called(ctx, req)
	return args.Error(0)
}
