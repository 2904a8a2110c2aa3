package errors_test

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renumber/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.Code
		message string
		want    string
	}{
		{
			name:    "not_found",
			code:    errors.CodeNotFound,
			message: "directory missing",
			want:    "[NOT_FOUND] directory missing",
		},
		{
			name:    "invalid_argument",
			code:    errors.CodeInvalidArgument,
			message: "expected one directory",
			want:    "[INVALID_ARGUMENT] expected one directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := errors.Wrap(cause, errors.CodeRenameFailure, "rename a.txt")

	require.NotNil(t, err)
	assert.Equal(t, "[RENAME_FAILURE] rename a.txt: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "nothing"))
}

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New(errors.CodeNameConflict, "3.txt exists"))

	assert.True(t, errors.IsCode(err, errors.CodeNameConflict))
	assert.False(t, errors.IsCode(err, errors.CodeRenameFailure))
	assert.ErrorIs(t, err, errors.New(errors.CodeNameConflict, "any message"))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, errors.CodeUnknown, errors.CodeOf(stderrors.New("plain")))
	assert.Equal(t, errors.CodeNotFound, errors.CodeOf(errors.New(errors.CodeNotFound, "x")))
	assert.Equal(t, errors.CodeUnknown, errors.CodeOf(nil))
}

func TestWrapOS_ClassifiesCause(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  errors.Code
	}{
		{"permission", &os.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, errors.CodePermissionDenied},
		{"not_exist", &os.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}, errors.CodeNotFound},
		{"other", stderrors.New("cross-device link"), errors.CodeRenameFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.WrapOS(tt.cause, errors.CodeRenameFailure, "rename")
			assert.Equal(t, tt.want, err.Code)
		})
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.CodeNameConflict, "exists").WithDetail("dest", "3.txt")
	assert.Equal(t, "3.txt", errors.DetailsOf(err)["dest"])
	assert.Nil(t, errors.DetailsOf(stderrors.New("plain")))
}
