package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/osp/internal/common"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// refresh returns a usable access token after a 401 that was sent with
// sent. Concurrent callers share one run.
func (c *Client) refresh(ctx context.Context, sent string) (string, error) {
	return c.flight.Do(ctx, func(ctx context.Context) (string, error) {
		current, err := c.store.AccessToken(ctx)
		if err == nil && current != sent {
			if current != "" {
				// a run that settled just before this one already renewed it
				return current, nil
			}
			// the session ended while the request was in flight
			return "", ErrNoRefreshToken
		}

		rt, err := c.store.RefreshToken(ctx)
		if err != nil || rt == "" {
			c.log.Warn(ctx, "no refresh token, logging out")
			c.logout(ctx)
			return "", ErrNoRefreshToken
		}

		c.log.Info(ctx, "refreshing access token")
		tok, next, err := c.callRefresh(ctx, rt)
		if err == nil {
			err = c.store.SetTokens(ctx, tok, next)
		}
		if err != nil {
			c.log.Warn(ctx, "token refresh failed, logging out", "err", err)
			c.logout(ctx)
			return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		}

		c.log.Info(ctx, "access token refreshed", "rotated", next != "")
		return tok, nil
	})
}

func (c *Client) callRefresh(ctx context.Context, refreshToken string) (string, string, error) {
	status, header, body, err := c.roundTrip(ctx, http.MethodPost, common.PathRefreshToken, nil, refreshRequest{RefreshToken: refreshToken}, "")
	if err != nil {
		return "", "", err
	}

	raw, err := classify(status, header, body)
	if err != nil {
		return "", "", err
	}

	var resp refreshResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if resp.AccessToken == "" {
		return "", "", fmt.Errorf("%w: refresh response has no access token", ErrDecode)
	}
	return resp.AccessToken, resp.RefreshToken, nil
}

// logout runs even when the refresh deadline has passed.
func (c *Client) logout(ctx context.Context) {
	if c.session == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := c.session.Logout(ctx); err != nil {
		c.log.Error(ctx, "logout failed", "err", err)
	}
}
