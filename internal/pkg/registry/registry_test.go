package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubModule struct {
	name     string
	priority int
	err      error
	order    *[]string
}

func (m *stubModule) Name() string  { return m.name }
func (m *stubModule) Priority() int { return m.priority }
func (m *stubModule) Init(ctx *ModuleContext) error {
	*m.order = append(*m.order, m.name)
	return m.err
}

func TestRegistry(t *testing.T) {
	t.Run("Initializes by priority", func(t *testing.T) {
		var order []string
		r := New()
		r.Register(&stubModule{name: "common", priority: 100, order: &order})
		r.Register(&stubModule{name: "user", priority: 1, order: &order})
		r.Register(&stubModule{name: "post", priority: 10, order: &order})
		r.Register(&stubModule{name: "group", priority: 10, order: &order})

		assert.NoError(t, r.InitModules(&ModuleContext{}))
		assert.Equal(t, []string{"user", "group", "post", "common"}, order)
	})

	t.Run("Stops at first failure", func(t *testing.T) {
		var order []string
		r := New()
		r.Register(&stubModule{name: "a", priority: 1, err: errors.New("boom"), order: &order})
		r.Register(&stubModule{name: "b", priority: 2, order: &order})

		err := r.InitModules(&ModuleContext{})
		assert.ErrorContains(t, err, "init module a")
		assert.Equal(t, []string{"a"}, order)
	})
}
