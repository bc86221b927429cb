package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lectern/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lectern/internal/core/domain"
)

func TestNewPreferencesService(t *testing.T) {
	svc := NewPreferencesService(memory.NewConfigStore())
	require.NotNil(t, svc)
}

func TestPreferencesService_Get_ReturnsDefaults(t *testing.T) {
	svc := NewPreferencesService(memory.NewConfigStore())

	prefs, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), prefs)
	assert.Equal(t, domain.DefaultPreferences(), svc.GetDefaults())
}

func TestPreferencesService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("reader.page_size", 25)
	_ = store.Set("reader.language", "bo")
	_ = store.Set("reader.layout", "prose")
	svc := NewPreferencesService(store)

	prefs, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, 25, prefs.PageSize)
	assert.Equal(t, "bo", prefs.Language)
	assert.Equal(t, domain.LayoutProse, prefs.Layout)
}

func TestPreferencesService_Get_InvalidValuesFallBack(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("reader.page_size", 0)
	_ = store.Set("reader.layout", "columns")
	svc := NewPreferencesService(store)

	prefs, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPageSize, prefs.PageSize)
	assert.Equal(t, domain.LayoutSegmented, prefs.Layout)

	_ = store.Set("reader.page_size", domain.MaxPageSize+1)
	prefs, _ = svc.Get()
	assert.Equal(t, domain.DefaultPageSize, prefs.PageSize)
}

func TestPreferencesService_Get_NilStore(t *testing.T) {
	svc := NewPreferencesService(nil)

	prefs, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), prefs)
}

func TestPreferencesService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewPreferencesService(store)

	err := svc.Save(domain.Preferences{PageSize: 30, Language: "zh", Layout: domain.LayoutProse})
	require.NoError(t, err)

	assert.Equal(t, 30, store.GetInt("reader.page_size"))
	assert.Equal(t, "zh", store.GetString("reader.language"))
	assert.Equal(t, "prose", store.GetString("reader.layout"))

	prefs, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 30, prefs.PageSize)
}

func TestPreferencesService_Save_Invalid(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewPreferencesService(store)

	err := svc.Save(domain.Preferences{PageSize: 0, Language: "en", Layout: domain.LayoutProse})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, ok := store.Get("reader.page_size")
	assert.False(t, ok)
}
