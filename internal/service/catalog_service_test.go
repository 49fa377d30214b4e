package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

func TestCatalogValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreatePriority(ctx, PriorityInput{Name: "Extreme", Level: 6})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.catalog.CreateDepartment(ctx, DepartmentInput{})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.catalog.CreateMaterialType(ctx, MaterialTypeInput{Name: "Toner", Stock: -1})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.catalog.CreateProvider(ctx, ProviderInput{Name: "Acme", Email: "not-an-email"})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestCatalogListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	priorities, err := f.catalog.ListPriorities(ctx)
	require.NoError(t, err)
	require.Len(t, priorities, 2)
	require.Equal(t, "Urgent", priorities[0].Name)

	material, err := f.catalog.CreateMaterialType(ctx, MaterialTypeInput{Name: "Toner", Stock: 12})
	require.NoError(t, err)
	provider, err := f.catalog.CreateProvider(ctx, ProviderInput{Name: "Acme", Email: "sales@acme.test"})
	require.NoError(t, err)

	ticket := f.create(t, func(in *TicketCreateInput) {
		in.MaterialTypeID = &material.ID
		in.ProviderID = &provider.ID
	})
	require.Equal(t, material.ID, *ticket.MaterialTypeID)

	missing := "missing"
	in := f.input()
	in.ProviderID = &missing
	_, err = f.svc.Create(ctx, requester, in)
	requireCode(t, err, apperrors.CodeValidation)

	depts, err := f.catalog.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, depts, 1)
}
