package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/storyworld/internal/fixture"
	"github.com/jask/storyworld/internal/generation"
	"github.com/jask/storyworld/internal/sample"
	"github.com/jask/storyworld/internal/validate"
	"github.com/jask/storyworld/internal/view"
	"github.com/jask/storyworld/internal/world"
)

type fakeGenerator struct {
	calls atomic.Int32
	mu    sync.Mutex
	last  world.Request
	world world.World
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, req world.Request) (world.World, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	return f.world, f.err
}

func desert() Input {
	return Input{Theme: "desert planet", Genre: world.GenreFantasy, Complexity: world.ComplexityMedium}
}

func TestNewSessionIsIdle(t *testing.T) {
	c := New(&fakeGenerator{}, nil)
	st := c.Snapshot()
	require.Equal(t, StatusIdle, st.Status)
	require.Nil(t, st.World)
	require.Empty(t, st.Error)
	require.Equal(t, DefaultInput(), st.Input)
	require.Equal(t, view.TabOverview, c.Views().Current())
}

func TestEmptyThemeFailsWithoutRequest(t *testing.T) {
	gen := &fakeGenerator{}
	c := New(gen, nil)

	a, err := c.Submit(Input{Theme: "", Genre: world.GenreFantasy})
	require.Nil(t, a)
	require.ErrorIs(t, err, validate.ErrEmptyInput)

	st := c.Snapshot()
	require.Equal(t, StatusFailed, st.Status)
	require.Equal(t, "Please enter a theme for your world.", st.Error)
	require.Nil(t, st.World)
	require.Nil(t, st.Request)
	require.Zero(t, gen.calls.Load())
}

func TestShortThemeFailsValidation(t *testing.T) {
	gen := &fakeGenerator{}
	c := New(gen, nil)

	err := c.Generate(context.Background(), Input{Theme: "ab"})
	require.ErrorIs(t, err, validate.ErrTooShort)
	require.Equal(t, StatusFailed, c.Snapshot().Status)
	require.Zero(t, gen.calls.Load())
}

func TestUnknownGenreFailsValidation(t *testing.T) {
	gen := &fakeGenerator{}
	c := New(gen, nil)

	_, err := c.Submit(Input{Theme: "desert planet", Genre: "fantsy"})
	require.ErrorIs(t, err, validate.ErrUnknownGenre)
	require.Contains(t, c.Snapshot().Error, "fantasy")
	require.Zero(t, gen.calls.Load())
}

func TestSuccessfulGenerationLoadsWorld(t *testing.T) {
	w := sample.World(world.GenreFantasy)
	w.Theme, w.Genre, w.Complexity = "", "", ""
	gen := &fakeGenerator{world: w}
	views := view.New()
	c := New(gen, views)
	views.SetTab("art")

	a, err := c.Submit(desert())
	require.NoError(t, err)
	st := c.Snapshot()
	require.Equal(t, StatusInFlight, st.Status)
	require.Equal(t, &world.Request{Theme: "desert planet", Genre: world.GenreFantasy, Complexity: world.ComplexityMedium}, st.Request)
	require.Nil(t, st.World)

	require.True(t, c.Apply(c.Execute(context.Background(), a)))

	st = c.Snapshot()
	require.Equal(t, StatusLoaded, st.Status)
	require.NotNil(t, st.World)
	require.Equal(t, "Dune of Glass", st.World.Title)
	require.Equal(t, "desert planet", st.World.Theme)
	require.Equal(t, "fantasy", st.World.Genre)
	require.Equal(t, "medium", st.World.Complexity)
	require.Empty(t, st.Error)
	require.Nil(t, st.Request)
	require.Equal(t, view.TabOverview, views.Current())
	require.EqualValues(t, 1, gen.calls.Load())
}

func TestThemeIsTrimmedBeforeSending(t *testing.T) {
	gen := &fakeGenerator{world: sample.World(world.GenreSciFi)}
	c := New(gen, nil)

	require.NoError(t, c.Generate(context.Background(), Input{Theme: "  ocean world \n", Genre: world.GenreSciFi, Complexity: world.ComplexityComplex}))
	require.Equal(t, world.Request{Theme: "ocean world", Genre: world.GenreSciFi, Complexity: world.ComplexityComplex}, gen.last)
	require.Equal(t, "  ocean world \n", c.Snapshot().Input.Theme)
}

func TestServiceErrorShowsDetail(t *testing.T) {
	gen := &fakeGenerator{err: &generation.ServiceError{Code: http.StatusInternalServerError, Detail: "rate limited"}}
	c := New(gen, nil)

	err := c.Generate(context.Background(), desert())
	require.Error(t, err)

	st := c.Snapshot()
	require.Equal(t, StatusFailed, st.Status)
	require.Equal(t, "rate limited", st.Error)
	require.Nil(t, st.World)
	require.Equal(t, desert(), st.Input)
}

func TestServiceErrorThroughHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"rate limited"}`))
	}))
	t.Cleanup(srv.Close)

	c := New(generation.NewClient(srv.URL, "", srv.Client()), nil)
	require.Error(t, c.Generate(context.Background(), desert()))
	require.Equal(t, "rate limited", c.Snapshot().Error)
}

func TestFixtureServerEndToEnd(t *testing.T) {
	store := fixture.NewStore(sample.World(world.GenreSteampunk))
	srv := httptest.NewServer(fixture.NewServer(store).Handler())
	t.Cleanup(srv.Close)

	c := New(generation.NewClient(srv.URL+"/generate-world", "", srv.Client()), nil)
	require.NoError(t, c.Generate(context.Background(), Input{Theme: "clockwork city", Genre: world.GenreSteampunk}))

	st := c.Snapshot()
	require.Equal(t, StatusLoaded, st.Status)
	require.Equal(t, "Cogsworth", st.World.Title)
	require.Equal(t, "clockwork city", st.World.Theme)
}

func TestMalformedAndTransportMessages(t *testing.T) {
	c := New(&fakeGenerator{err: &generation.MalformedResponse{Err: errors.New("missing title")}}, nil)
	require.Error(t, c.Generate(context.Background(), desert()))
	require.Equal(t, "The generation service returned an incomplete world. Please try again.", c.Snapshot().Error)

	c = New(&fakeGenerator{err: &generation.TransportError{Err: errors.New("connection refused")}}, nil)
	require.Error(t, c.Generate(context.Background(), desert()))
	require.Equal(t, "Could not reach the generation service. Please try again.", c.Snapshot().Error)
}

func TestSubmitWhileInFlightIsNoOp(t *testing.T) {
	gen := &fakeGenerator{world: sample.World(world.GenreFantasy)}
	c := New(gen, nil)

	a, err := c.Submit(desert())
	require.NoError(t, err)
	before := c.Snapshot()

	second, err := c.Submit(Input{Theme: "something else entirely"})
	require.ErrorIs(t, err, ErrBusy)
	require.Nil(t, second)
	require.Equal(t, before, c.Snapshot())
	require.ErrorIs(t, c.SetInput(Input{Theme: "x"}), ErrBusy)

	require.True(t, c.Apply(c.Execute(context.Background(), a)))
	require.EqualValues(t, 1, gen.calls.Load())
}

func TestResetDuringFlightDiscardsLateResponse(t *testing.T) {
	gen := &fakeGenerator{world: sample.World(world.GenreFantasy)}
	c := New(gen, nil)

	a, err := c.Submit(desert())
	require.NoError(t, err)
	c.Reset()

	require.False(t, c.Apply(c.Execute(context.Background(), a)))

	st := c.Snapshot()
	require.Equal(t, StatusIdle, st.Status)
	require.Nil(t, st.World)
	require.Empty(t, st.Error)
	require.Equal(t, DefaultInput(), st.Input)
}

func TestLateFailureAfterResetIsDiscarded(t *testing.T) {
	c := New(&fakeGenerator{err: &generation.ServiceError{Code: 500, Detail: "boom"}}, nil)

	a, err := c.Submit(desert())
	require.NoError(t, err)
	c.Reset()
	require.False(t, c.Apply(c.Execute(context.Background(), a)))
	require.Equal(t, StatusIdle, c.Snapshot().Status)
}

func TestOutcomeFromOlderAttemptIsDiscarded(t *testing.T) {
	gen := &fakeGenerator{world: sample.World(world.GenreFantasy)}
	c := New(gen, nil)

	first, err := c.Submit(desert())
	require.NoError(t, err)
	c.Reset()
	second, err := c.Submit(desert())
	require.NoError(t, err)

	require.False(t, c.Apply(Outcome{Attempt: first.ID, Request: first.Request, World: sample.World(world.GenreSciFi)}))
	require.Equal(t, StatusInFlight, c.Snapshot().Status)
	require.True(t, c.Apply(c.Execute(context.Background(), second)))
	require.Equal(t, "Dune of Glass", c.Snapshot().World.Title)
}

func TestApplyingTwiceIsIgnored(t *testing.T) {
	c := New(&fakeGenerator{world: sample.World(world.GenreFantasy)}, nil)
	a, err := c.Submit(desert())
	require.NoError(t, err)
	o := c.Execute(context.Background(), a)
	require.True(t, c.Apply(o))
	require.False(t, c.Apply(o))
}

func TestResubmitFailureRetainsWorld(t *testing.T) {
	gen := &fakeGenerator{world: sample.World(world.GenreFantasy)}
	c := New(gen, nil)
	require.NoError(t, c.Generate(context.Background(), desert()))

	_, err := c.Submit(Input{Theme: "x"})
	require.Error(t, err)
	st := c.Snapshot()
	require.Equal(t, StatusFailed, st.Status)
	require.Nil(t, st.World)

	require.True(t, c.Dismiss())
	st = c.Snapshot()
	require.Equal(t, StatusLoaded, st.Status)
	require.Equal(t, "Dune of Glass", st.World.Title)
	require.Empty(t, st.Error)
}

func TestResubmitServiceFailureRetainsWorld(t *testing.T) {
	gen := &fakeGenerator{world: sample.World(world.GenreFantasy)}
	c := New(gen, nil)
	require.NoError(t, c.Generate(context.Background(), desert()))

	gen.mu.Lock()
	gen.err = &generation.ServiceError{Code: 503, Detail: "busy"}
	gen.mu.Unlock()
	require.Error(t, c.Generate(context.Background(), desert()))
	require.Equal(t, "busy", c.Snapshot().Error)

	require.True(t, c.Dismiss())
	require.Equal(t, StatusLoaded, c.Snapshot().Status)
}

func TestDismissWithoutWorldReturnsToIdle(t *testing.T) {
	c := New(&fakeGenerator{}, nil)
	require.False(t, c.Dismiss())

	_, err := c.Submit(Input{Theme: " "})
	require.Error(t, err)
	require.True(t, c.Dismiss())

	st := c.Snapshot()
	require.Equal(t, StatusIdle, st.Status)
	require.Equal(t, " ", st.Input.Theme)
}

func TestResetClearsEverything(t *testing.T) {
	views := view.New()
	c := New(&fakeGenerator{world: sample.World(world.GenreFantasy)}, views)
	require.NoError(t, c.Generate(context.Background(), Input{Theme: "desert planet", Genre: world.GenreSciFi, Complexity: world.ComplexitySimple}))
	views.SetTab("dialogues")

	c.Reset()
	st := c.Snapshot()
	require.Equal(t, StatusIdle, st.Status)
	require.Nil(t, st.World)
	require.Equal(t, DefaultInput(), st.Input)
	require.Equal(t, view.TabOverview, views.Current())
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(&fakeGenerator{world: sample.World(world.GenreFantasy)}, nil)
	require.NoError(t, c.Generate(context.Background(), desert()))

	st := c.Snapshot()
	st.World.Title = "changed"
	require.Equal(t, "Dune of Glass", c.Snapshot().World.Title)
}

func TestSubscribeDeliversLatestState(t *testing.T) {
	c := New(&fakeGenerator{world: sample.World(world.GenreFantasy)}, nil)
	ch, stop := c.Subscribe()
	defer stop()

	require.NoError(t, c.Generate(context.Background(), desert()))

	select {
	case st := <-ch:
		require.Equal(t, StatusLoaded, st.Status)
	case <-time.After(time.Second):
		t.Fatal("no state delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	c := New(&fakeGenerator{}, nil)
	ch, stop := c.Subscribe()
	stop()
	stop()

	_, ok := <-ch
	require.False(t, ok)
	c.Reset()
}

func TestConcurrentApplyAndSnapshot(t *testing.T) {
	c := New(&fakeGenerator{world: sample.World(world.GenreFantasy)}, nil)
	a, err := c.Submit(desert())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Apply(c.Execute(context.Background(), a))
	}()
	for i := 0; i < 100; i++ {
		st := c.Snapshot()
		if st.Status == StatusLoaded {
			require.NotNil(t, st.World)
		}
	}
	wg.Wait()
	require.Equal(t, StatusLoaded, c.Snapshot().Status)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "in_flight", StatusInFlight.String())
	require.Equal(t, "unknown", Status(42).String())
}

func TestConfiguredDefaultsSurviveReset(t *testing.T) {
	c := New(&fakeGenerator{world: sample.World(world.GenreSciFi)}, nil, WithDefaults(world.GenreSciFi, world.ComplexityComplex))
	want := Input{Genre: world.GenreSciFi, Complexity: world.ComplexityComplex}
	require.Equal(t, want, c.Snapshot().Input)

	require.NoError(t, c.Generate(context.Background(), Input{Theme: "ocean world"}))
	require.Equal(t, world.ComplexityComplex, c.Snapshot().Input.Complexity)

	c.Reset()
	require.Equal(t, want, c.Snapshot().Input)
}
