package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOfClassifiedErrors(t *testing.T) {
	require.Equal(t, ErrKindValidation, KindOf(ValidationError("too big")))
	require.Equal(t, ErrKindProcessing, KindOf(ProcessingError("corrupt", errors.New("decode"))))
	require.Equal(t, ErrKindUpstream, KindOf(UpstreamError("store", errors.New("dial"))))
}

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("handling upload: %w", ValidationError("too big"))
	require.Equal(t, ErrKindValidation, KindOf(err))
}

func TestKindOfUnclassifiedDefaultsToUpstream(t *testing.T) {
	require.Equal(t, ErrKindUpstream, KindOf(errors.New("anything")))
}

func TestErrorMessageHidesCauseFromClients(t *testing.T) {
	cause := errors.New("AccessDenied: key id AKIA...")
	err := UpstreamError("cannot store image", cause)

	require.Equal(t, "cannot store image", MessageOf(err))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "AccessDenied")
}
