package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hall-booking/internal/testfixtures"
	"github.com/iliyamo/hall-booking/internal/utils"
)

func TestModuleRepo_Ensure(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	repo := NewModuleRepo(db)

	m, err := repo.Ensure(ctx, " EE2201 ", "")
	require.NoError(t, err)
	assert.Equal(t, "EE2201", m.Code)
	assert.Equal(t, "EE2201", m.Name)

	again, err := repo.Ensure(ctx, "EE2201", "Signals")
	require.NoError(t, err)
	assert.Equal(t, m.ID, again.ID)
	assert.Equal(t, "EE2201", again.Name, "existing modules are not renamed")

	_, err = repo.FindIDByCode(ctx, "ZZ9999")
	assert.ErrorIs(t, err, ErrModuleNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStaffRepo_CreateLinksModules(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	modules := NewModuleRepo(db)
	testfixtures.SeedModule(t, db, "EE2201")
	repo := NewStaffRepo(db, users, modules)

	uid, err := repo.Create(ctx, NewStaff{
		RegNo: "st/001", Name: "Dr. Perera", Password: "secret",
		Department: "EE", StaffType: "Academic",
		Modules: []string{"EE2201", "EE3301", " EE3301 ", ""},
	}, 4)
	require.NoError(t, err)
	assert.NotZero(t, uid)
	assert.Equal(t, 2, testfixtures.Count(t, db, "modules"))
	assert.Equal(t, 2, testfixtures.Count(t, db, "staff_modules"))

	staff, err := repo.List(ctx, "perera", "")
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "ST/001", staff[0].RegNo)
	assert.Equal(t, []string{"EE2201", "EE3301"}, staff[0].Modules)

	_, err = repo.Create(ctx, NewStaff{RegNo: "ST/001", Name: "Dup", Password: "x", StaffType: "Non-Academic"}, 4)
	assert.ErrorIs(t, err, ErrRegNoExists)
	assert.Equal(t, 1, testfixtures.Count(t, db, "staff"))
}

func TestUserAndTokenRepo(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	tokens := NewTokenRepo(db)

	created, err := users.EnsureAdmin(ctx, "admin", "pw", 4)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = users.EnsureAdmin(ctx, "ADMIN", "pw", 4)
	require.NoError(t, err)
	assert.False(t, created)

	u, err := users.GetByRegNo(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", u.Role)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "pw"))

	hash := utils.HashRefreshRaw("raw-token")
	require.NoError(t, tokens.StoreRefresh(ctx, u.ID, hash, time.Now().Add(time.Hour)))
	uid, err := tokens.ValidateRefresh(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	require.NoError(t, tokens.RevokeByHash(ctx, hash))
	_, err = tokens.ValidateRefresh(ctx, hash)
	assert.Error(t, err)
}
