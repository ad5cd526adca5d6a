package keymap

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindings_Complete(t *testing.T) {
	for i, b := range Bindings {
		assert.NotEmpty(t, b.Action, "binding[%d]", i)
		assert.NotEmpty(t, b.Keys, "binding[%d] (%s)", i, b.Action)
		assert.NotEmpty(t, b.Description, "binding[%d] (%s)", i, b.Action)
		assert.Contains(t, Contexts, b.Context, "binding[%d] (%s)", i, b.Action)
	}
}

func TestBindings_KeysUnique(t *testing.T) {
	var all []string
	for _, b := range Bindings {
		all = append(all, b.Keys...)
	}
	slices.Sort(all)

	assert.Equal(t, len(all), len(slices.Compact(slices.Clone(all))))
}

func TestBindings_FooterActionsBound(t *testing.T) {
	for _, a := range footer {
		assert.NotEmpty(t, Default().Keys(a), a)
	}
}
