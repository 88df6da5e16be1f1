package item

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextItem(t *testing.T) {
	it := NewTextItem("hello")
	assert.Equal(t, "hello", it.Title)
	require.NotNil(t, it.Data)
	assert.Equal(t, DataText, it.Data.Kind)
	assert.Equal(t, 5, it.Data.Len())
}

func TestNewPathItem(t *testing.T) {
	it := NewPathItem("/tmp/dir/../notes.txt")
	assert.Equal(t, "notes.txt", it.Title)
	require.NotNil(t, it.Data)
	assert.Equal(t, DataPath, it.Data.Kind)
	assert.Equal(t, "/tmp/notes.txt", it.Data.String())
}

func TestClone_DoesNotAlias(t *testing.T) {
	orig := NewTextItem("a")
	orig.Icon = CharIcon('x', "Sans")

	cp := orig.Clone()
	cp.Data.Text = "changed"
	cp.Icon.Glyph = 'y'

	assert.Equal(t, "a", orig.Data.Text)
	assert.Equal(t, 'x', orig.Icon.Glyph)
}

func TestCloneAll_Nil(t *testing.T) {
	assert.Nil(t, CloneAll(nil))
	assert.Len(t, CloneAll([]Item{{Title: "a"}}), 1)
}

func TestBase_RejectsEverything(t *testing.T) {
	var b Base
	assert.False(t, b.AcceptsEmptyInput())
	assert.False(t, b.AcceptsText())
	assert.False(t, b.AcceptsReference(TextData("x")))

	_, err := b.Run(context.Background())
	assert.ErrorIs(t, err, ErrNotSelectable)
	_, err = b.RunWithText(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotSelectable)
	_, err = b.RunWithReference(context.Background(), PathData("/"))
	assert.ErrorIs(t, err, ErrNotSelectable)
}

func TestError_KindAndMessage(t *testing.T) {
	err := NewError(ErrNoData, "No clipboard history available")
	assert.Equal(t, "No clipboard history available", err.Error())
	assert.ErrorIs(t, err, ErrNoData)
	assert.NotErrorIs(t, err, ErrLocked)
}

func TestFailed(t *testing.T) {
	assert.NoError(t, Failed(nil))

	cause := errors.New("exit status 1")
	err := Failed(cause)
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "exit status 1", err.Error())

	// Already-kinded errors keep their kind.
	locked := fmt.Errorf("history: %w", NewError(ErrLocked, "busy"))
	assert.Same(t, locked, Failed(locked))
}
