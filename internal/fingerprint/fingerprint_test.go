package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	a := Email("Maya.Williams@example.org")
	b := Email("  maya.williams@example.org ")

	assert.Len(t, a, 12)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Email("andre.thomas@example.org"))
	assert.NotContains(t, a, "maya")
	assert.Empty(t, Email("   "))
}
