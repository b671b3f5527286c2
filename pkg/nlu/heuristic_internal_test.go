package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRegexps_CompiledOncePerSlot(t *testing.T) {
	first := slotRegexps("card.digits")
	require.Len(t, first, len(slotPatterns))

	second := slotRegexps("card.digits")
	for i := range first {
		assert.Same(t, first[i], second[i])
	}

	other := slotRegexps("city")
	assert.NotSame(t, first[0], other[0])

	// The slot name is matched literally.
	assert.Equal(t, "1234", matchSlot("card.digits: 1234", "card.digits"))
	assert.Empty(t, matchSlot("cardXdigits: 1234", "card.digits"))
	assert.Equal(t, "Lisbon", matchSlot("my city is Lisbon", "city"))
}
