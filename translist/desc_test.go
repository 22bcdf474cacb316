package translist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateDescRejectsBadSize(t *testing.T) {
	l := newTestList(t, 8, 8, 8)

	_, err := l.AllocateDesc(0)
	require.ErrorIs(t, err, ErrInvalidOpCount)

	_, err = l.AllocateDesc(MaxOps + 1)
	require.ErrorIs(t, err, ErrInvalidOpCount)
}

func TestAllocateDescExhaustion(t *testing.T) {
	l := newTestList(t, 8, 1, 8)

	d, err := l.AllocateDesc(1)
	require.NoError(t, err)
	require.NotNil(t, d)

	_, err = l.AllocateDesc(1)
	require.ErrorIs(t, err, ErrPoolExhausted)
}

func TestSetOpRejectsOutOfRange(t *testing.T) {
	l := newTestList(t, 8, 8, 8)
	d, err := l.AllocateDesc(2)
	require.NoError(t, err)

	require.ErrorIs(t, d.SetOp(-1, Insert, 5), ErrOpIndexRange)
	require.ErrorIs(t, d.SetOp(2, Insert, 5), ErrOpIndexRange)
	require.NoError(t, d.SetOp(0, Insert, 5))
}

func TestSetOpRejectsAfterSubmit(t *testing.T) {
	l := newTestList(t, 8, 8, 8)
	d, err := l.AllocateDesc(1)
	require.NoError(t, err)
	require.NoError(t, d.SetOp(0, Insert, 5))

	l.ExecuteOps(d)

	require.ErrorIs(t, d.SetOp(0, Insert, 6), ErrDescriptorSubmitted)
}

func TestDescStatusTransitionsAreMonotonic(t *testing.T) {
	l := newTestList(t, 8, 8, 8)
	d, err := l.AllocateDesc(1)
	require.NoError(t, err)
	require.NoError(t, d.SetOp(0, Insert, 5))
	require.Equal(t, Live, d.Status())

	require.True(t, l.ExecuteOps(d))
	require.Equal(t, Committed, d.Status())

	require.False(t, d.compareAndSwapStatus(Committed, Live))
	require.False(t, d.compareAndSwapStatus(Committed, Aborted))
	require.Equal(t, Committed, d.Status())
}
