package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRequiresMembership(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	_, err := ts.activity.Post(ctx, userC, companyID, "hello")
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestPostRequiresContent(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	_, err := ts.activity.Post(ctx, adminA, companyID, "   ")
	assert.ErrorIs(t, err, pkg.ErrValidation)
}

func TestAnyMemberMayPost(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)
	require.NoError(t, ts.membership.AddMember(ctx, companyID, userB, model.RoleMember))

	entry, err := ts.activity.Post(ctx, userB, companyID, "<p>closed two loans this week</p>")
	require.NoError(t, err)
	assert.Equal(t, userB, entry.AuthorID)
	assert.NotZero(t, entry.ID)
}

func TestListNewestFirstWithCursor(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	for i := 1; i <= 5; i++ {
		_, err := ts.activity.Post(ctx, adminA, companyID, fmt.Sprintf("update %d", i))
		require.NoError(t, err)
	}

	page, next, err := ts.activity.List(ctx, companyID, 0, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "update 5", page[0].Content)
	assert.Equal(t, "update 3", page[2].Content)
	require.NotZero(t, next)

	rest, next, err := ts.activity.List(ctx, companyID, next, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "update 2", rest[0].Content)
	assert.Equal(t, "update 1", rest[1].Content)
	assert.Zero(t, next, "no further page")
}
