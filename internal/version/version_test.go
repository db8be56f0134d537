package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	assert.Equal(t, Version, Info())
	assert.True(t, strings.HasPrefix(FullInfo(), "Hatch "+Version))
}

func TestBuildIDStable(t *testing.T) {
	id := BuildID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, BuildID())
}
