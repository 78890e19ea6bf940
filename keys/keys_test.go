package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryMappedKeyHasBinding(t *testing.T) {
	for s, name := range GlobalKeyStringsMap {
		binding, ok := GlobalkeyBindings[name]
		if assert.True(t, ok, "key %q has no binding", s) {
			assert.Contains(t, binding.Keys(), s)
			assert.NotEmpty(t, binding.Help().Desc)
		}
	}
}
