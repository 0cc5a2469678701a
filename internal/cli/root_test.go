package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExtensionOrigin(t *testing.T) {
	tests := []struct {
		arg  string
		want bool
	}{
		{"chrome-extension://abcdefghijklmnop/", true},
		{"moz-extension://2d3c1e5a-0000-4000-8000-000000000000/", true},
		{"/home/user/.mozilla/native-messaging-hosts/factlens.json", true},
		{"version", false},
		{"--help", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, isExtensionOrigin(tt.arg))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute())
	assert.Equal(t, "factlens "+Version+"\n", out.String())
}
