package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/portfolio/internal/model"
)

func TestCreatePortfolio(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePortfolio(ctx, "  Islamabad ")
	require.NoError(t, err)
	require.Equal(t, "Islamabad", p.City)

	_, err = svc.CreatePortfolio(ctx, "Islamabad")
	require.ErrorIs(t, err, model.ErrConflict)

	_, err = svc.CreatePortfolio(ctx, "   ")
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestAttachItemIsSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePortfolio(ctx, "Islamabad")
	require.NoError(t, err)
	item := addTestItem(t, svc)

	require.NoError(t, svc.AttachItem(ctx, "Islamabad", item.ID))

	_, err = svc.EditItem(ctx, item.ID, EditItemInput{
		Names:        `[{"locale":"en","name":"Renamed"}]`,
		Descriptions: `[]`,
	})
	require.NoError(t, err)

	p, err := svc.GetPortfolio(ctx, "Islamabad")
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	require.Equal(t, "Faisal Mosque", p.Items[0].Name(""))

	// Re-attaching refreshes the snapshot in place.
	require.NoError(t, svc.AttachItem(ctx, "Islamabad", item.ID))
	p, _ = svc.GetPortfolio(ctx, "Islamabad")
	require.Len(t, p.Items, 1)
	require.Equal(t, "Renamed", p.Items[0].Name("en"))

	// Deleting the catalog item leaves the snapshot.
	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	overview, err := svc.ListPortfolios(ctx)
	require.NoError(t, err)
	require.Empty(t, overview.Items)
	require.Len(t, overview.Portfolios[0].Items, 1)
}

func TestAttachItemErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	item := addTestItem(t, svc)

	require.ErrorIs(t, svc.AttachItem(ctx, "Nowhere", item.ID), model.ErrNotFound)

	_, err := svc.CreatePortfolio(ctx, "Lahore")
	require.NoError(t, err)
	require.ErrorIs(t, svc.AttachItem(ctx, "Lahore", "missing"), model.ErrNotFound)
}

func TestDetachAndDeletePortfolio(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePortfolio(ctx, "Karachi")
	require.NoError(t, err)
	item := addTestItem(t, svc)
	require.NoError(t, svc.AttachItem(ctx, "Karachi", item.ID))

	require.NoError(t, svc.DetachItem(ctx, "Karachi", item.ID))
	require.ErrorIs(t, svc.DetachItem(ctx, "Karachi", item.ID), model.ErrNotFound)

	p, err := svc.GetPortfolio(ctx, "Karachi")
	require.NoError(t, err)
	require.Empty(t, p.Items)

	// The catalog item is untouched.
	_, err = svc.GetItem(ctx, item.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePortfolio(ctx, "Karachi"))
	require.ErrorIs(t, svc.DeletePortfolio(ctx, "Karachi"), model.ErrNotFound)
}
