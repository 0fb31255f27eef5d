package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeedURL_AbsoluteAlready(t *testing.T) {
	u, err := ParseSeedURL("https://example.com/path")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "https", u.Scheme)
}

func TestParseSeedURL_SchemeLessPromoted(t *testing.T) {
	u, err := ParseSeedURL("example.com")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "www.example.com", u.Host)
}

func TestParseSeedURL_Garbage(t *testing.T) {
	_, err := ParseSeedURL("::::not a url at all::::")
	assert.Error(t, err)
}

func TestToplevelDomainPlusOne(t *testing.T) {
	u, err := ParseSeedURL("www.bbc.co.uk")
	require.NoError(t, err)
	dom, err := ToplevelDomainPlusOne(u)
	require.NoError(t, err)
	assert.Equal(t, "bbc.co.uk", dom)
}

func TestMakeAbsolute(t *testing.T) {
	base, err := ParseSeedURL("example.com")
	require.NoError(t, err)
	ref, err := ParseURL("/foo/bar")
	require.NoError(t, err)
	abs := MakeAbsolute(base, ref)
	assert.True(t, abs.IsAbs())
	assert.Equal(t, "www.example.com", abs.Host)
	assert.Equal(t, "/foo/bar", abs.Path)
}
