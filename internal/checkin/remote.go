package checkin

import (
	"context"

	"github.com/julianstephens/dayglow/internal/backend"
	"github.com/julianstephens/dayglow/internal/models"
)

// Remote is the slice of the backend the check-in workflow needs.
type Remote interface {
	CreateCheckIn(ctx context.Context, c models.RemoteCheckIn) (models.RemoteCheckIn, error)
	UpdateCheckIn(ctx context.Context, id string, c models.RemoteCheckIn) (models.RemoteCheckIn, error)
	AwardBadge(ctx context.Context, b models.UserBadge) error
}

type backendRemote struct {
	c *backend.Client
}

// NewRemote adapts a backend client.
func NewRemote(c *backend.Client) Remote {
	return backendRemote{c: c}
}

func (r backendRemote) CreateCheckIn(ctx context.Context, c models.RemoteCheckIn) (models.RemoteCheckIn, error) {
	return r.c.CheckIns().Create(ctx, c)
}

func (r backendRemote) UpdateCheckIn(ctx context.Context, id string, c models.RemoteCheckIn) (models.RemoteCheckIn, error) {
	return r.c.CheckIns().Update(ctx, id, map[string]any{
		"ratings":        c.Ratings,
		"notes":          c.Notes,
		"wellness_index": c.WellnessIdx,
	})
}

func (r backendRemote) AwardBadge(ctx context.Context, b models.UserBadge) error {
	_, err := r.c.UserBadges().Create(ctx, b)
	return err
}
