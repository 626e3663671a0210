package clipboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidledwards/ped/internal/clipboard"
)

func TestWriteReadRoundTrip(t *testing.T) {
	if !clipboard.Available() {
		t.Skip("no system clipboard utility available in this environment")
	}
	require.NoError(t, clipboard.Write([]rune("hello, ped")))
	got, err := clipboard.Read()
	require.NoError(t, err)
	assert.Equal(t, "hello, ped", string(got))
}
