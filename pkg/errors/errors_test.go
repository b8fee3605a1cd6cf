package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrCopy, "copy failed")
	assert.Equal(t, ErrCopy, err.Code)
	assert.Equal(t, "copy failed", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("permission denied")
	err := Wrap(inner, ErrLink, "failed to link vimrc")

	assert.Equal(t, "failed to link vimrc: permission denied", err.Error())
	assert.Equal(t, inner, err.Unwrap())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCopy, "never happened"))
	assert.Nil(t, Wrapf(nil, ErrCopy, "never %s", "happened"))
}

func TestIsMatchesOnCode(t *testing.T) {
	err := Newf(ErrTransfer, "scp %s: exit status 1", "foo")

	assert.True(t, IsCode(err, ErrTransfer))
	assert.False(t, IsCode(err, ErrRemoteRun))
	assert.Equal(t, ErrTransfer, GetCode(err))
}

func TestGetCodeForPlainError(t *testing.T) {
	assert.Equal(t, ErrUnknown, GetCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrStage, "staging failed").WithDetail("src", "bashrc")
	assert.Equal(t, "bashrc", err.Details["src"])
}
