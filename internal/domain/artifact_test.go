package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLifetime(t *testing.T) {
	tests := []struct {
		token string
		want  time.Duration
	}{
		{"2min", 2 * time.Minute},
		{"5min", 5 * time.Minute},
		{"1hr", time.Hour},
		{"5hr", 5 * time.Hour},
		{"1day", 24 * time.Hour},
		{"", time.Hour},
		{"2 minutes", time.Hour},
		{"forever", time.Hour},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lifetime(tt.token), "token %q", tt.token)
	}
}

func TestLive(t *testing.T) {
	now := time.Now()
	a := Artifact{ExpiresAt: now.Add(time.Minute)}
	assert.True(t, a.Live(now))
	assert.False(t, a.Live(now.Add(time.Minute)))
	assert.False(t, a.Live(now.Add(2*time.Minute)))
}

func TestEntry(t *testing.T) {
	a := Artifact{Entries: []ContentEntry{
		{StorageName: "a.bin", DisplayName: "first"},
		{StorageName: "b.bin", DisplayName: "second"},
	}}
	e := a.Entry("b.bin")
	assert.NotNil(t, e)
	assert.Equal(t, "second", e.DisplayName)
	assert.Nil(t, a.Entry("c.bin"))
}
