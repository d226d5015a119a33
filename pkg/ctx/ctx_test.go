package ctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

func newTestCtx() *Ctx {
	return New(nil, "https://default.example/", 1_700_000_000_000)
}

func TestAddToLibraryMergesByMtimeRule(t *testing.T) {
	c := newTestCtx()
	envr := newFakeEnv(nil)

	c.Library.MergeItems([]catalogtypes.LibraryItem{{ID: "tt1", Name: "old", Mtime: 100}})

	eff := c.AddToLibrary(envr, "https://api.example", catalogtypes.LibraryItem{ID: "tt1", Name: "new"})
	assert.True(t, eff.Changed)
	assert.Equal(t, "new", c.Library.Items["tt1"].Name)
	assert.True(t, c.Library.Items["tt1"].Mtime >= 100)
}

func TestRemoveFromLibraryMarksRemovedNotDeleted(t *testing.T) {
	c := newTestCtx()
	envr := newFakeEnv(nil)
	c.Library.MergeItems([]catalogtypes.LibraryItem{{ID: "tt1", Mtime: 100}})

	_, err := c.RemoveFromLibrary(envr, "https://api.example", "tt1")
	require.NoError(t, err)

	item, ok := c.Library.Items["tt1"]
	require.True(t, ok)
	assert.True(t, item.Removed)
}

func TestRemoveFromLibraryUnknownIDErrors(t *testing.T) {
	c := newTestCtx()
	envr := newFakeEnv(nil)
	_, err := c.RemoveFromLibrary(envr, "https://api.example", "missing")
	var ctxErr CtxError
	require.ErrorAs(t, err, &ctxErr)
	assert.Equal(t, LibraryItemNotFound, ctxErr.Other.Kind)
}

func TestAuthenticateThenHandleResultPullsAddonsAndLibrary(t *testing.T) {
	envr := newFakeEnv(func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		switch {
		case containsSuffix(req.URL, "/api/login"):
			return jsonResult(map[string]any{"result": catalogtypes.Auth{Key: "k1", User: catalogtypes.User{ID: "u1", Email: "a@b.com"}}})
		case containsSuffix(req.URL, "/api/addonCollectionGet"):
			return jsonResult(map[string]any{"result": []catalogtypes.Descriptor{}})
		case containsSuffix(req.URL, "/api/datastoreMeta"):
			return jsonResult(map[string]any{"result": []map[string]any{}})
		default:
			return env.FetchResult{}, nil
		}
	})

	c := newTestCtx()
	req := AuthRequest{Login: &LoginRequest{Email: "a@b.com", Password: "secret"}}
	eff := c.Authenticate(envr, "https://api.example", req)
	assert.Equal(t, StatusLoading, c.Status.Kind)
	require.Len(t, eff.Futures, 1)

	msg := eff.Futures[0](nil)
	result, ok := msg.Payload.(AuthenticateResult)
	require.True(t, ok)
	require.Nil(t, result.Err)

	applyEff := c.HandleAuthenticateResult(envr, "https://api.example", result)
	assert.Equal(t, StatusReady, c.Status.Kind)
	assert.NotNil(t, c.Profile.Auth)
	assert.Equal(t, "k1", c.Profile.Auth.Key)

	var sawUserAuthenticated int
	for _, f := range applyEff.Futures {
		m := f(nil)
		if m.Kind == effects.Event && m.Name == "UserAuthenticated" {
			sawUserAuthenticated++
		}
	}
	assert.Equal(t, 1, sawUserAuthenticated)
}

func TestLogoutClearsPerUserBucketsAndResetsUID(t *testing.T) {
	c := newTestCtx()
	c.Profile.Auth = &catalogtypes.Auth{Key: "k1", User: catalogtypes.User{ID: "u1"}}
	c.Library = catalogtypes.NewLibraryBucket(c.uid(), []catalogtypes.LibraryItem{{ID: "tt1", Mtime: 1}})

	envr := newFakeEnv(func(req env.HTTPRequest[any]) (env.FetchResult, error) {
		return jsonResult(map[string]any{"result": nil})
	})

	c.Logout(envr, "https://api.example")

	assert.Nil(t, c.Profile.Auth)
	assert.Nil(t, c.uid())
	assert.Empty(t, c.Library.Items)
	assert.Nil(t, c.TraktAddon)
}

func TestInstallAddonRejectsDuplicateOnSecondCall(t *testing.T) {
	c := newTestCtx()
	envr := newFakeEnv(nil)
	policy := DefaultAddonPolicy{}
	d := catalogtypes.Descriptor{TransportURL: "https://addon.example/manifest.json"}

	_, err := c.InstallAddon(envr, "https://api.example", policy, d)
	require.NoError(t, err)

	_, err = c.InstallAddon(envr, "https://api.example", policy, d)
	var ctxErr CtxError
	require.ErrorAs(t, err, &ctxErr)
	assert.Equal(t, AddonAlreadyInstalled, ctxErr.Other.Kind)
}

func containsSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
