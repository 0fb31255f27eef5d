package indexer

import (
	"context"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteAdmission_ForwardsInOrder(t *testing.T) {
	in := make(chan *url.URL, 3)
	out := make(chan *url.URL, 3)

	a, b, c := &url.URL{Host: "a"}, &url.URL{Host: "b"}, &url.URL{Host: "c"}
	in <- a
	in <- b
	in <- c
	close(in)

	admission := NewSiteAdmission(in, out, zerolog.Nop())
	require.NoError(t, admission.Run(context.Background()))

	got := []*url.URL{<-out, <-out, <-out}
	assert.Equal(t, []*url.URL{a, b, c}, got)

	_, ok := <-out
	assert.False(t, ok, "out should be closed once in is drained")
}

func TestSiteAdmission_ContextCancelStopsForwarding(t *testing.T) {
	in := make(chan *url.URL)
	out := make(chan *url.URL)

	ctx, cancel := context.WithCancel(context.Background())
	admission := NewSiteAdmission(in, out, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- admission.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}
