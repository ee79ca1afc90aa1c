package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPendiente, StatusEnCamino, StatusEntregado, StatusRechazado, StatusCancelado} {
		require.True(t, s.Valid(), s)
	}
	require.False(t, Status("SHIPPED").Valid())
	require.False(t, Status("").Valid())
}

func TestDealerRelevant(t *testing.T) {
	require.True(t, StatusPendiente.DealerRelevant())
	require.True(t, StatusEnCamino.DealerRelevant())
	require.False(t, StatusEntregado.DealerRelevant())
	require.False(t, StatusRechazado.DealerRelevant())
	require.False(t, StatusCancelado.DealerRelevant())
}

func TestSatisfies(t *testing.T) {
	cases := []struct {
		event, target Status
		want          bool
	}{
		{StatusEnCamino, StatusEnCamino, true},
		{StatusEntregado, StatusEnCamino, true},
		{StatusCancelado, StatusEnCamino, true},
		{StatusRechazado, StatusPendiente, true},
		{StatusPendiente, StatusEnCamino, false},
		{StatusEnCamino, StatusEntregado, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.event.Satisfies(c.target), "%s satisfies %s", c.event, c.target)
	}
}

func TestCanTransitionTo(t *testing.T) {
	require.True(t, StatusPendiente.CanTransitionTo(StatusEnCamino))
	require.True(t, StatusPendiente.CanTransitionTo(StatusRechazado))
	require.True(t, StatusEnCamino.CanTransitionTo(StatusEntregado))
	require.True(t, StatusEnCamino.CanTransitionTo(StatusCancelado))

	require.False(t, StatusPendiente.CanTransitionTo(StatusEntregado))
	require.False(t, StatusEnCamino.CanTransitionTo(StatusPendiente))
	require.False(t, StatusEntregado.CanTransitionTo(StatusEnCamino))
	require.False(t, StatusCancelado.CanTransitionTo(StatusPendiente))
}
