package correlation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/gateway"
)

func successOutcome(id string) gateway.Outcome {
	return gateway.Outcome{
		Status:    gateway.StatusSuccess,
		HTTPCode:  200,
		RequestID: id,
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Run("registered id becomes pending", func(t *testing.T) {
		// Arrange
		r := NewRegistry(zap.NewNop())

		// Act
		ch, err := r.Register(KindCreate, "req-1", time.Minute)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, ch)
		require.Equal(t, 1, r.Pending())
	})

	t.Run("duplicate live id is rejected", func(t *testing.T) {
		// Arrange
		r := NewRegistry(zap.NewNop())
		_, err := r.Register(KindCreate, "req-1", time.Minute)
		require.NoError(t, err)

		// Act
		_, err = r.Register(KindConfirm, "req-1", time.Minute)

		// Assert
		require.Error(t, err)
		require.Contains(t, err.Error(), "already pending")
		require.Equal(t, 1, r.Pending())
	})

	t.Run("id can be reused after resolve", func(t *testing.T) {
		// Arrange
		r := NewRegistry(zap.NewNop())
		_, err := r.Register(KindCreate, "req-1", time.Minute)
		require.NoError(t, err)
		require.True(t, r.Resolve("req-1", successOutcome("req-1")))

		// Act
		_, err = r.Register(KindCreate, "req-1", time.Minute)

		// Assert
		require.NoError(t, err)
	})
}

func TestRegistry_Resolve(t *testing.T) {
	t.Run("resolve delivers outcome to waiting channel", func(t *testing.T) {
		// Arrange
		r := NewRegistry(zap.NewNop())
		ch, err := r.Register(KindCreate, "req-1", time.Minute)
		require.NoError(t, err)

		// Act
		resolved := r.Resolve("req-1", successOutcome("req-1"))

		// Assert
		require.True(t, resolved)
		require.Equal(t, 0, r.Pending())

		select {
		case out := <-ch:
			require.True(t, out.IsSuccess())
			require.Equal(t, "req-1", out.RequestID)
		case <-time.After(time.Second):
			t.Fatal("expected outcome on channel")
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		r := NewRegistry(zap.NewNop())

		require.False(t, r.Resolve("missing", successOutcome("missing")))
	})

	t.Run("second resolve of same id is a no-op", func(t *testing.T) {
		// Arrange
		r := NewRegistry(zap.NewNop())
		ch, err := r.Register(KindCreate, "req-1", time.Minute)
		require.NoError(t, err)

		// Act
		first := r.Resolve("req-1", successOutcome("req-1"))
		second := r.Resolve("req-1", gateway.TransientOutcome("duplicate"))

		// Assert
		require.True(t, first)
		require.False(t, second)

		out := <-ch
		require.True(t, out.IsSuccess(), "channel must carry the first resolution only")
		select {
		case extra := <-ch:
			t.Fatalf("unexpected second value on channel: %+v", extra)
		default:
		}
	})

	t.Run("resolved entry never fires its timeout", func(t *testing.T) {
		// Arrange
		r := NewRegistry(zap.NewNop())
		ch, err := r.Register(KindCreate, "req-1", 30*time.Millisecond)
		require.NoError(t, err)
		require.True(t, r.Resolve("req-1", successOutcome("req-1")))
		<-ch

		// Act: пережидаем дедлайн
		time.Sleep(80 * time.Millisecond)

		// Assert
		select {
		case extra := <-ch:
			t.Fatalf("timeout fired after resolve: %+v", extra)
		default:
		}
		require.Equal(t, 0, r.Pending())
	})
}

func TestRegistry_Expire(t *testing.T) {
	t.Run("deadline delivers synthetic retry outcome exactly once", func(t *testing.T) {
		// Arrange
		r := NewRegistry(zap.NewNop())
		ch, err := r.Register(KindCreate, "req-1", 20*time.Millisecond)
		require.NoError(t, err)

		// Act
		var out gateway.Outcome
		select {
		case out = <-ch:
		case <-time.After(time.Second):
			t.Fatal("expected synthetic outcome after deadline")
		}

		// Assert
		require.Equal(t, gateway.StatusFailed, out.Status)
		require.Equal(t, gateway.SubstatusRetry, out.Substatus)
		require.Equal(t, 0, r.Pending())
		require.False(t, r.Resolve("req-1", successOutcome("req-1")), "expired entry must be gone")
	})
}

func TestRegistry_ResolveFirst(t *testing.T) {
	t.Run("resolves oldest pending entry of kind", func(t *testing.T) {
		// Arrange
		r := NewRegistry(zap.NewNop())
		chCreate, err := r.Register(KindCreate, "create-1", time.Minute)
		require.NoError(t, err)
		chOld, err := r.Register(KindConfirm, "confirm-1", time.Minute)
		require.NoError(t, err)
		_, err = r.Register(KindConfirm, "confirm-2", time.Minute)
		require.NoError(t, err)

		// Act
		id, ok := r.ResolveFirst(KindConfirm, successOutcome(""))

		// Assert
		require.True(t, ok)
		require.Equal(t, "confirm-1", id, "must skip create entries and pick the oldest confirm")
		require.Equal(t, 2, r.Pending())

		out := <-chOld
		require.True(t, out.IsSuccess())

		select {
		case <-chCreate:
			t.Fatal("create entry must not be resolved by confirm fallback")
		default:
		}
	})

	t.Run("no pending entry of kind", func(t *testing.T) {
		// Arrange
		r := NewRegistry(zap.NewNop())
		_, err := r.Register(KindCreate, "create-1", time.Minute)
		require.NoError(t, err)

		// Act
		id, ok := r.ResolveFirst(KindConfirm, successOutcome(""))

		// Assert
		require.False(t, ok)
		require.Empty(t, id)
		require.Equal(t, 1, r.Pending())
	})
}

func TestRegistry_Drain(t *testing.T) {
	// Arrange
	r := NewRegistry(zap.NewNop())
	ch1, err := r.Register(KindCreate, "req-1", time.Minute)
	require.NoError(t, err)
	ch2, err := r.Register(KindConfirm, "req-2", time.Minute)
	require.NoError(t, err)

	// Act
	drained := r.Drain(gateway.TransientOutcome("service is shutting down"))

	// Assert
	require.Equal(t, 2, drained)
	require.Equal(t, 0, r.Pending())

	for _, ch := range []<-chan gateway.Outcome{ch1, ch2} {
		select {
		case out := <-ch:
			require.Equal(t, gateway.SubstatusRetry, out.Substatus)
		case <-time.After(time.Second):
			t.Fatal("drained entry must receive an outcome")
		}
	}

	require.Equal(t, 0, r.Drain(gateway.TransientOutcome("again")), "second drain is empty")
}
