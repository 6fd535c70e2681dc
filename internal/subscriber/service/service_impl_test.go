package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/smallbiznis/billhub/internal/subscriber/domain"
	"github.com/smallbiznis/billhub/internal/subscriber/repository"
	"github.com/smallbiznis/billhub/internal/subscriber/service"
	"github.com/smallbiznis/billhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	db := testutil.NewDB(t, &domain.Subscriber{})
	return service.New(service.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: testutil.NewNode(t),
		Repo:  repository.Provide(),
	})
}

func TestEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	first, err := svc.Ensure(ctx, domain.EnsureSubscriberRequest{SubscriberNo: "1001", Name: "Ali Veli", Email: "ali@example.com"})
	require.NoError(t, err)

	second, err := svc.Ensure(ctx, domain.EnsureSubscriberRequest{SubscriberNo: "1001", Name: "Ali Veli", Email: "ali@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	updated, err := svc.Ensure(ctx, domain.EnsureSubscriberRequest{SubscriberNo: "1001", Name: "Ali V.", Email: "ali@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "Ali V.", updated.Name)
}

func TestEnsureValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Ensure(ctx, domain.EnsureSubscriberRequest{SubscriberNo: " ", Name: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidSubscriberNo)

	_, err = svc.Ensure(ctx, domain.EnsureSubscriberRequest{SubscriberNo: "1", Name: "", Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Ensure(ctx, domain.EnsureSubscriberRequest{SubscriberNo: "1", Name: "x", Email: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestGetByNumberIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Ensure(ctx, domain.EnsureSubscriberRequest{SubscriberNo: "AB-77", Name: "Case", Email: "case@example.com"})
	require.NoError(t, err)

	got, err := svc.GetByNumber(ctx, "ab-77")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "AB-77", got.SubscriberNo)

	_, err = svc.GetByNumber(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByNumber(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidSubscriberNo)
}

func TestFindByNumbers(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for i := 0; i < 5; i++ {
		_, err := svc.Ensure(ctx, domain.EnsureSubscriberRequest{
			SubscriberNo: fmt.Sprintf("X%d", i),
			Name:         fmt.Sprintf("Subscriber %d", i),
			Email:        fmt.Sprintf("s%d@example.com", i),
		})
		require.NoError(t, err)
	}

	found, err := svc.FindByNumbers(ctx, []string{"x0", "X1", "x1", "unknown", ""})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Contains(t, found, "x0")
	assert.Contains(t, found, "x1")
	assert.Equal(t, "X1", found["x1"].SubscriberNo)

	empty, err := svc.FindByNumbers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
