package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"read", "page", "toc", "history", "settings", "mcp", "version"} {
		assert.True(t, names[want], "%s command should be registered", want)
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "api-url"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestSetup_BootstrapsOnce(t *testing.T) {
	useServices(t, nil)
	calls := 0
	var got Options
	SetBootstrap(func(_ context.Context, opts Options) (*Services, error) {
		calls++
		got = opts
		return &Services{TOC: &fakeTOC{toc: sampleTOC()}, Content: &fakeContent{}}, nil
	})

	_, err := execute(t, "toc", "t1", "--api-url", "http://example.test", "--config-dir", "/tmp/lectern")
	require.NoError(t, err)
	_, err = execute(t, "toc", "t1")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "http://example.test", got.APIURL)
	assert.Equal(t, "/tmp/lectern", got.ConfigDir)
}

func TestSetup_BootstrapError(t *testing.T) {
	useServices(t, nil)
	SetBootstrap(func(context.Context, Options) (*Services, error) {
		return nil, errors.New("no database")
	})

	_, err := execute(t, "toc", "t1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting lectern: no database")
}

func TestSetup_StandaloneSkipsBootstrap(t *testing.T) {
	useServices(t, nil)
	SetBootstrap(func(context.Context, Options) (*Services, error) {
		t.Fatal("version must not bootstrap")
		return nil, nil
	})

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "lectern version")
}

func TestExecute_ClosesServices(t *testing.T) {
	closed := 0
	useServices(t, &Services{Close: func() error {
		closed++
		return errors.New("close failed")
	}})
	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	err := Execute(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
	assert.Equal(t, 1, closed)

	// A second Execute does not close again.
	rootCmd.SetArgs([]string{"version"})
	assert.NoError(t, Execute(context.Background()))
	assert.Equal(t, 1, closed)
}

func TestConfigDir(t *testing.T) {
	original := options.ConfigDir
	defer func() { options.ConfigDir = original }()

	options.ConfigDir = "/custom"
	assert.Equal(t, "/custom", configDir())

	options.ConfigDir = ""
	assert.Contains(t, configDir(), ".lectern")
}

func TestOutputWidth_NonTerminal(t *testing.T) {
	assert.Equal(t, defaultWidth, outputWidth(nil))
}
