package cli

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

func TestReadTarget(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		flags   func()
		key     domain.SessionKey
		anchor  string
		section string
		wantErr bool
	}{
		{
			name: "plain text id",
			arg:  "t1",
			key:  domain.SessionKey{TextID: "t1"},
		},
		{
			name:    "location URL",
			arg:     "lectern://texts/t1?contentId=c1&sectionId=s4",
			key:     domain.SessionKey{TextID: "t1", ContentID: "c1"},
			section: "s4",
		},
		{
			name: "flags override the location",
			arg:  "lectern://texts/t1?contentId=c1&sectionId=s4",
			flags: func() {
				readFlags.content = "c2"
				readFlags.version = "v1"
				readFlags.segment = "seg7"
				readFlags.section = "s9"
			},
			key:     domain.SessionKey{TextID: "t1", ContentID: "c2", VersionID: "v1"},
			anchor:  "seg7",
			section: "s9",
		},
		{name: "bad location", arg: "lectern://books/t1", wantErr: true},
		{name: "empty id", arg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(rootCmd)
			defer resetFlags(rootCmd)
			if tt.flags != nil {
				tt.flags()
			}

			key, anchor, section, err := readTarget(tt.arg)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.anchor, anchor)
			assert.Equal(t, tt.section, section)
		})
	}
}

func TestReadCmd_NonTerminalPrintsPage(t *testing.T) {
	content := &fakeContent{page: samplePage()}
	useServices(t, &Services{Content: content})

	out, err := execute(t, "read", "t1", "--segment", "seg1")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] alpha")
	require.Len(t, content.requests, 1)
	assert.Equal(t, "seg1", content.requests[0].Anchor)
	assert.Equal(t, domain.DefaultPageSize, content.requests[0].Size)
}

func TestReadCmd_RequiresReaderOnTerminal(t *testing.T) {
	original := isTerminal
	isTerminal = func(io.Writer) bool { return true }
	defer func() { isTerminal = original }()
	useServices(t, &Services{Content: &fakeContent{page: samplePage()}})

	_, err := execute(t, "read", "t1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reader not configured")
}

func TestReadCmd_Help(t *testing.T) {
	out, err := execute(t, "read", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "interactive terminal reader")
	assert.Contains(t, out, "Controls:")
}
