package maps

import (
	"context"
	"fmt"
	"time"

	"ecopool/pkg/logger"
)

// Chain tries an ordered list of routing strategies, each under its own
// timeout, falling through on any failure. With a StraightLineProvider as the
// final strategy the chain never fails, which keeps trip creation from
// blocking on external routing.
type Chain struct {
	providers []RouteProvider
	timeout   time.Duration
	log       *logger.Logger
}

func NewChain(log *logger.Logger, timeout time.Duration, providers ...RouteProvider) *Chain {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Chain{
		providers: providers,
		timeout:   timeout,
		log:       log,
	}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) GetRouteInfo(ctx context.Context, origin, dest Coordinate) (*RouteInfo, error) {
	var lastErr error
	for _, p := range c.providers {
		info, err := func() (*RouteInfo, error) {
			tctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return p.GetRouteInfo(tctx, origin, dest)
		}()
		if err == nil {
			return info, nil
		}
		lastErr = err
		c.log.WithError(err).WithField("provider", p.Name()).Warn("route provider failed, falling through")
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no route providers configured")
	}
	return nil, lastErr
}

func (c *Chain) GetEncodedPath(ctx context.Context, origin, dest Coordinate) (string, error) {
	var lastErr error
	for _, p := range c.providers {
		path, err := func() (string, error) {
			tctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return p.GetEncodedPath(tctx, origin, dest)
		}()
		if err == nil {
			return path, nil
		}
		lastErr = err
		c.log.WithError(err).WithField("provider", p.Name()).Warn("polyline provider failed, falling through")
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no route providers configured")
	}
	return "", lastErr
}
