package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWireShape(t *testing.T) {
	data, err := json.Marshal(NotMarkdownFile("/ws/a.txt"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"not_markdown_file","message":"Not a markdown file: /ws/a.txt"}`, string(data))
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("read: %w", FileNotFound("/ws/x.md"))
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.False(t, errors.Is(err, ErrAccessDenied))
}

func TestIOUnwrapsCause(t *testing.T) {
	err := IO(os.ErrPermission)
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Nil(t, IO(nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindFileTooLarge, KindOf(FileTooLarge(50, 60)))
	assert.Equal(t, KindIO, KindOf(errors.New("boom")))
}

func TestAsWrapsForeignErrors(t *testing.T) {
	e := As(errors.New("disk full"))
	assert.Equal(t, KindIO, e.Kind)
	assert.Contains(t, e.Message, "disk full")

	orig := AccessDenied("/etc/passwd")
	assert.Same(t, orig, As(orig))
}

func TestFileTooLargeMessage(t *testing.T) {
	msg := FileTooLarge(50, 60).Error()
	assert.Contains(t, msg, "60 MB")
	assert.Contains(t, msg, "50 MB")
}

func TestConstructorKinds(t *testing.T) {
	cases := []struct {
		err  *Error
		want Kind
	}{
		{FileNotFound("/ws/a.md"), KindFileNotFound},
		{InvalidFolder(""), KindInvalidFolder},
		{AccessDenied("/etc/x.md"), KindAccessDenied},
		{InvalidFileName("b.md already exists"), KindInvalidFileName},
		{NotMarkdownFile("/ws/a.txt"), KindNotMarkdownFile},
		{DialogCancelled(""), KindDialogCancelled},
		{UnsupportedFontFormat("exe"), KindUnsupportedFontFormat},
		{PathError("escapes"), KindPath},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Kind)
		assert.NotEmpty(t, tc.err.Message)
		assert.Nil(t, tc.err.Unwrap())
	}
	assert.Equal(t, "Dialog cancelled: no picker", DialogCancelled("no picker").Message)
}
