package shopcontext

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeRoundTripThroughContext(t *testing.T) {
	ctx := WithScope(context.Background(), Scope{TenantID: 1, ShopID: 2, UserID: 3})

	shopID, ok := ShopIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(2), shopID)

	tenantID, ok := TenantIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(1), tenantID)

	userID, ok := UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(3), userID)
}

func TestMissingScope(t *testing.T) {
	_, ok := ShopIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithScope(context.Background(), Scope{TenantID: 1})
	_, ok = ShopIDFromContext(ctx)
	assert.False(t, ok)
}

func TestAllows(t *testing.T) {
	open := Scope{ShopID: 5}
	assert.True(t, open.Allows(5))
	assert.True(t, open.Allows(6))

	restricted := Scope{ShopID: 5, AllowedShopIDs: []snowflake.ID{5, 7}}
	assert.True(t, restricted.Allows(7))
	assert.False(t, restricted.Allows(6))
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList(" 10, ,20 ")
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{10, 20}, ids)

	_, err = ParseIDList("10,abc")
	assert.Error(t, err)

	ids, err = ParseIDList("")
	require.NoError(t, err)
	assert.Nil(t, ids)
}
