package minify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goatminify/goatminify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// EngineCache Tests
// =============================================================================

// --- Happy Path Tests ---

func TestEngineCache_LoadsOnce(t *testing.T) {
	var loads atomic.Int32
	engine := &countingEngine{out: "x"}
	cache := NewEngineCache(map[models.Family]EngineFactory{
		models.FamilyCSS: func() (Engine, error) {
			loads.Add(1)
			return engine, nil
		},
	})

	assert.False(t, cache.Loaded(models.FamilyCSS))

	first, err := cache.Get(context.Background(), models.FamilyCSS)
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), models.FamilyCSS)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), loads.Load())
	assert.True(t, cache.Loaded(models.FamilyCSS))
}

func TestEngineCache_ConcurrentFirstUseLoadsOnce(t *testing.T) {
	var loads atomic.Int32
	cache := NewEngineCache(map[models.Family]EngineFactory{
		models.FamilyJS: func() (Engine, error) {
			loads.Add(1)
			time.Sleep(20 * time.Millisecond)
			return &countingEngine{out: "x"}, nil
		},
	})

	var wg sync.WaitGroup
	engines := make([]Engine, 20)
	for i := range engines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := cache.Get(context.Background(), models.FamilyJS)
			assert.NoError(t, err)
			engines[i] = e
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, e := range engines {
		assert.Same(t, engines[0], e)
	}
}

// --- Failure Tests ---

func TestEngineCache_FailedLoadIsRetried(t *testing.T) {
	var loads atomic.Int32
	cache := NewEngineCache(map[models.Family]EngineFactory{
		models.FamilyHTML: func() (Engine, error) {
			if loads.Add(1) == 1 {
				return nil, errors.New("not yet")
			}
			return &countingEngine{out: "x"}, nil
		},
	})

	_, err := cache.Get(context.Background(), models.FamilyHTML)
	assert.ErrorIs(t, err, ErrEngineUnavailable)
	assert.False(t, cache.Loaded(models.FamilyHTML))

	e, err := cache.Get(context.Background(), models.FamilyHTML)
	require.NoError(t, err)
	assert.NotNil(t, e)
	assert.Equal(t, int32(2), loads.Load())
}

func TestEngineCache_FactoryPanic(t *testing.T) {
	cache := NewEngineCache(map[models.Family]EngineFactory{
		models.FamilyJS: func() (Engine, error) { panic("bad init") },
	})

	_, err := cache.Get(context.Background(), models.FamilyJS)
	assert.ErrorIs(t, err, ErrEngineUnavailable)
	assert.Contains(t, err.Error(), "bad init")
}

func TestEngineCache_NilEngine(t *testing.T) {
	cache := NewEngineCache(map[models.Family]EngineFactory{
		models.FamilyJS: func() (Engine, error) { return nil, nil },
	})

	_, err := cache.Get(context.Background(), models.FamilyJS)
	assert.ErrorIs(t, err, ErrEngineUnavailable)
}

func TestEngineCache_UnknownFamily(t *testing.T) {
	cache := NewEngineCache(map[models.Family]EngineFactory{})

	_, err := cache.Get(context.Background(), models.FamilyCSS)
	assert.ErrorIs(t, err, ErrEngineUnavailable)
}

func TestEngineCache_Disabled(t *testing.T) {
	cache := NewEngineCache(nil, WithEnginesDisabled(true))

	assert.True(t, cache.Disabled())
	_, err := cache.Get(context.Background(), models.FamilyCSS)
	assert.ErrorIs(t, err, ErrEngineDisabled)
}

func TestEngineCache_CanceledContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	cache := NewEngineCache(map[models.Family]EngineFactory{
		models.FamilyCSS: func() (Engine, error) {
			<-release
			return &countingEngine{out: "x"}, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.Get(ctx, models.FamilyCSS)
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// EngineError Tests
// =============================================================================

func TestEngineError(t *testing.T) {
	cause := errors.New("syntax")
	err := &EngineError{Family: models.FamilyJS, Reason: ReasonError, Cause: cause}

	assert.Equal(t, "js engine error: syntax", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ReasonError, ReasonOf(fmtWrap(err)))
	assert.Equal(t, "css engine gate", (&EngineError{Family: models.FamilyCSS, Reason: ReasonGate}).Error())
	assert.Equal(t, FailureReason(""), ReasonOf(cause))
}

func fmtWrap(err error) error {
	return errors.Join(errors.New("outer"), err)
}
