package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// UserDirectory looks up user accounts in the user service.
type UserDirectory struct {
	c *Client
}

func NewUserDirectory(c *Client) *UserDirectory { return &UserDirectory{c: c} }

// Lookup returns the member view of one user; Role is left empty and
// ActualRole carries the account role.
func (d *UserDirectory) Lookup(ctx context.Context, userID string) (domain.Member, error) {
	body, err := d.c.Do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return domain.Member{}, fmt.Errorf("looking up user %s: %w", userID, err)
	}
	u, err := decodeOne[userDTO](body)
	if err != nil {
		return domain.Member{}, err
	}
	return domain.Member{
		UserID:      domain.CoalesceStr(rawID(u.ID), userID),
		DisplayName: domain.CoalesceStr(u.FullName, u.Username),
		Email:       u.Email,
		ActualRole:  u.UserRole,
		Avatar:      u.Avatar,
	}, nil
}

// Enrich fills ActualRole and missing profile fields for every member.
// Lookups run concurrently; a failed lookup leaves that member unchanged.
func (d *UserDirectory) Enrich(ctx context.Context, members []domain.Member) []domain.Member {
	out := make([]domain.Member, len(members))
	copy(out, members)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range out {
		g.Go(func() error {
			u, err := d.Lookup(gctx, out[i].UserID)
			if err != nil {
				d.c.log.Sugar().Debugw("user lookup failed", "user_id", out[i].UserID, "error", err)
				return nil
			}
			out[i].ActualRole = u.ActualRole
			out[i].DisplayName = domain.CoalesceStr(out[i].DisplayName, u.DisplayName)
			out[i].Email = domain.CoalesceStr(out[i].Email, u.Email)
			out[i].Avatar = domain.CoalesceStr(out[i].Avatar, u.Avatar)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
