package netlib_test

import (
	"strings"
	"testing"

	"github.com/katalvlaran/densela/backend"
	"github.com/katalvlaran/densela/backend/netlib"
	"github.com/stretchr/testify/require"
)

func TestRegistrationVisibleThroughGonumBackend(t *testing.T) {
	name := backend.NewGonum(nil).Name()
	require.Equal(t, netlib.Enabled, strings.Contains(name, "netlib"), name)
}
