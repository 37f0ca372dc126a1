package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-entry/framework/container"
)

func newEnemy(name string) *Enemy { return &Enemy{name: name} }

func newEnemyErr(name string) (*Enemy, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}
	return &Enemy{name: name}, nil
}

func newSquad(prefix string, sizes ...int) *Enemy {
	total := 0
	for _, s := range sizes {
		total += s
	}
	return &Enemy{name: prefix + string(rune('0'+total))}
}

func TestConstruct(t *testing.T) {
	inst, err := container.Construct(newEnemy, "grunt")
	require.NoError(t, err)
	assert.Equal(t, "grunt", inst.(*Enemy).Name())

	inst, err = container.Construct(newEnemyErr, "boss")
	require.NoError(t, err)
	assert.Equal(t, "boss", inst.(*Enemy).Name())

	inst, err = container.Construct(newSquad, "s", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "s3", inst.(*Enemy).Name())

	inst, err = container.Construct(newSquad, "s")
	require.NoError(t, err)
	assert.Equal(t, "s0", inst.(*Enemy).Name())
}

func TestConstruct_Failures(t *testing.T) {
	tests := []struct {
		name string
		ctor any
		args []any
	}{
		{"not a function", 42, nil},
		{"nil function", (func() *Enemy)(nil), nil},
		{"no results", func() {}, nil},
		{"bad second result", func() (*Enemy, int) { return nil, 0 }, nil},
		{"too few args", newEnemy, nil},
		{"too many args", newEnemy, []any{"a", "b"}},
		{"wrong arg type", newEnemy, []any{3}},
		{"nil for value param", newEnemy, []any{nil}},
		{"ctor error", newEnemyErr, []any{""}},
		{"nil result", func() *Enemy { return nil }, nil},
		{"panic", func() *Enemy { panic("boom") }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := container.Construct(tt.ctor, tt.args...)
			assert.Nil(t, inst)
			assert.ErrorIs(t, err, container.ErrConstruct)
		})
	}
}

func TestConstruct_WrapsCtorError(t *testing.T) {
	sentinel := errors.New("no ammo")
	_, err := container.Construct(func() (*Enemy, error) { return nil, sentinel })
	assert.ErrorIs(t, err, sentinel)
}

func TestConstruct_NilForPointerParam(t *testing.T) {
	inst, err := container.Construct(func(p *Player) *Enemy {
		if p == nil {
			return &Enemy{name: "orphan"}
		}
		return &Enemy{name: p.Name()}
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "orphan", inst.(*Enemy).Name())
}

func TestBindNew(t *testing.T) {
	c := newContainer(t)

	inst, err := c.BindNew(keyNamed, newEnemy, "scout")
	require.NoError(t, err)

	got, ok := container.Resolve[Named](c)
	require.True(t, ok)
	assert.Same(t, inst, got)
}

func TestBindNew_ConstructionFailureBindsNothing(t *testing.T) {
	c := newContainer(t)

	_, err := c.BindNew(keyNamed, newEnemyErr, "")
	assert.ErrorIs(t, err, container.ErrConstruct)
	assert.Equal(t, 0, c.Len())
}

func TestBindNew_BindFailureIsReported(t *testing.T) {
	c := newContainer(t)

	_, err := c.BindNew(keyScored, newEnemy, "scout")
	assert.True(t, container.IsInvalidKey(err))
	assert.Equal(t, 0, c.Len())
}
