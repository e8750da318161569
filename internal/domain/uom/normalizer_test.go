package uom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/catalogs/item"
)

type fakeItemSource struct {
	items map[id.ID]*item.Item
}

func (f *fakeItemSource) GetWithPackagings(ctx context.Context, itemID id.ID) (*item.Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return it, nil
}

// packagedItem builds an item sold "each" with a pack-of-12 packaging.
func packagedItem() (*item.Item, id.ID) {
	it := item.NewItem("ITM-001", "Bottled water", item.TypeGoods)
	pack := item.NewPackaging(it.ID, "box of 12", types.NewQuantityFromInt(12))
	it.Packagings = []item.Packaging{pack}
	return it, pack.ID
}

func TestNormalize_PackOfTwelve(t *testing.T) {
	it, packID := packagedItem()
	n := NewNormalizer(&fakeItemSource{items: map[id.ID]*item.Item{it.ID: it}})

	line, err := n.Normalize(context.Background(), it.ID, id.Ptr(packID), types.NewQuantityFromInt(3))
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromInt(36), line.NormalizedQty)
	assert.Equal(t, types.NewQuantityFromInt(12), line.ConversionFactor)
	assert.Equal(t, types.NewQuantityFromInt(3), line.InputQty)
	assert.Equal(t, it.ID, line.ItemID)
	require.NotNil(t, line.PackagingID)
	assert.Equal(t, packID, *line.PackagingID)
}

func TestNormalize_BaseUnitWhenNoPackaging(t *testing.T) {
	it, _ := packagedItem()
	n := NewNormalizer(&fakeItemSource{items: map[id.ID]*item.Item{it.ID: it}})

	line, err := n.Normalize(context.Background(), it.ID, nil, types.NewQuantityFromFloat64(2.5))
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromInt(1), line.ConversionFactor)
	assert.Equal(t, types.NewQuantityFromFloat64(2.5), line.NormalizedQty)
	assert.Nil(t, line.PackagingID)
}

func TestNormalize_FractionalInput(t *testing.T) {
	it, packID := packagedItem()
	n := NewNormalizer(&fakeItemSource{items: map[id.ID]*item.Item{it.ID: it}})

	// Half a box of 12 is 6 base units.
	line, err := n.Normalize(context.Background(), it.ID, id.Ptr(packID), types.NewQuantityFromFloat64(0.5))
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(6), line.NormalizedQty)
}

func TestNormalize_RejectsNonPositiveQty(t *testing.T) {
	it, packID := packagedItem()
	n := NewNormalizer(&fakeItemSource{items: map[id.ID]*item.Item{it.ID: it}})

	for _, qty := range []types.Quantity{0, types.NewQuantityFromInt(-1)} {
		_, err := n.Normalize(context.Background(), it.ID, id.Ptr(packID), qty)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}

func TestNormalize_RejectsForeignPackaging(t *testing.T) {
	it, _ := packagedItem()
	other, otherPackID := packagedItem()
	n := NewNormalizer(&fakeItemSource{items: map[id.ID]*item.Item{it.ID: it, other.ID: other}})

	_, err := n.Normalize(context.Background(), it.ID, id.Ptr(otherPackID), types.NewQuantityFromInt(1))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, otherPackID.String(), appErr.Details["packaging_id"])
}

func TestNormalize_RejectsInactivePackaging(t *testing.T) {
	it, packID := packagedItem()
	it.Packagings[0].IsActive = false
	n := NewNormalizer(&fakeItemSource{items: map[id.ID]*item.Item{it.ID: it}})

	_, err := n.Normalize(context.Background(), it.ID, id.Ptr(packID), types.NewQuantityFromInt(1))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "PACKAGING_INACTIVE", appErr.Code)
}

func TestNormalize_RejectsInactiveItem(t *testing.T) {
	it, packID := packagedItem()
	it.IsActive = false
	n := NewNormalizer(&fakeItemSource{items: map[id.ID]*item.Item{it.ID: it}})

	_, err := n.Normalize(context.Background(), it.ID, id.Ptr(packID), types.NewQuantityFromInt(1))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "ITEM_INACTIVE", appErr.Code)
}

func TestNormalize_UnknownItem(t *testing.T) {
	n := NewNormalizer(&fakeItemSource{items: map[id.ID]*item.Item{}})

	_, err := n.Normalize(context.Background(), id.New(), nil, types.NewQuantityFromInt(1))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
