package store_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sojourn-fsm/sojourn"
	"github.com/sojourn-fsm/sojourn/store"
	"github.com/sojourn-fsm/sojourn/store/memory"
)

type mood string

const (
	calm  mood = "calm"
	angry mood = "angry"
)

func TestPersistResumeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	codec := store.StringCodec[mood]{}

	src, err := sojourn.New(calm)
	require.NoError(t, err)
	src.Set(angry)
	src.Tick(1500 * time.Millisecond)
	require.NoError(t, store.Persist(ctx, s, "npc-7", src, codec))

	dst, err := sojourn.New(calm)
	require.NoError(t, err)
	require.NoError(t, store.Resume(ctx, s, "npc-7", dst, codec))

	assert.Equal(t, angry, dst.Current())
	assert.Equal(t, 1500*time.Millisecond, dst.Elapsed())
	// Resume is a raw overwrite, so the previous state is untouched.
	assert.Equal(t, calm, dst.Previous())
}

func TestResumeMissingID(t *testing.T) {
	m, err := sojourn.New(calm)
	require.NoError(t, err)

	err = store.Resume(context.Background(), memory.New(), "nope", m, store.StringCodec[mood]{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResumeRejectsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Save(ctx, "bad", store.Record{State: "angry", ElapsedSeconds: -1}))

	m, err := sojourn.New(calm)
	require.NoError(t, err)

	err = store.Resume(ctx, s, "bad", m, store.StringCodec[mood]{})
	assert.ErrorIs(t, err, sojourn.ErrNegativeElapsed)
	assert.Equal(t, calm, m.Current(), "failed resume must not touch the machine")
}

func TestFuncCodec(t *testing.T) {
	codec := store.FuncCodec[int]{
		Encode: func(n int) (string, error) { return strconv.Itoa(n), nil },
		Decode: func(s string) (int, error) { return strconv.Atoi(s) },
	}

	enc, err := codec.EncodeState(42)
	require.NoError(t, err)
	assert.Equal(t, "42", enc)

	dec, err := codec.DecodeState("42")
	require.NoError(t, err)
	assert.Equal(t, 42, dec)

	_, err = codec.DecodeState("not-a-number")
	assert.Error(t, err)
}

func TestResumeDecodeFailure(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Save(ctx, "weird", store.Record{State: "garbage"}))

	m, err := sojourn.New(0)
	require.NoError(t, err)

	codec := store.FuncCodec[int]{
		Encode: func(n int) (string, error) { return strconv.Itoa(n), nil },
		Decode: func(s string) (int, error) { return strconv.Atoi(s) },
	}
	err = store.Resume(ctx, s, "weird", m, codec)
	require.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound))
}
