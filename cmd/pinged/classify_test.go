package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johncpakin/pinged/pkg/mediaurl"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want classification
	}{
		{
			name: "youtube watch",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: classification{
				URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Embeddable: true,
				Media:    &mediaurl.Reference{Platform: mediaurl.PlatformYouTube, Type: mediaurl.ResourceVideo, ID: "dQw4w9WgXcQ"},
				EmbedURL: "https://www.youtube.com/embed/dQw4w9WgXcQ?modestbranding=1&rel=0&showinfo=0",
			},
		},
		{
			name: "twitch channel",
			url:  "https://twitch.tv/shroud",
			want: classification{
				URL: "https://twitch.tv/shroud", Embeddable: true,
				Media:    &mediaurl.Reference{Platform: mediaurl.PlatformTwitch, Type: mediaurl.ResourceChannel, ID: "shroud"},
				EmbedURL: "https://player.twitch.tv/?channel=shroud&parent=pinged.gg&autoplay=false",
			},
		},
		{
			name: "not embeddable",
			url:  "https://example.com",
			want: classification{URL: "https://example.com"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.url, "pinged.gg"))
		})
	}
}

func TestClassifyCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"classify", "--parent", "pinged.gg", "https://youtube.com/shorts/abc123", "nope"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first classification
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.True(t, first.Embeddable)
	assert.True(t, first.Vertical)
	assert.Equal(t, mediaurl.ResourceShorts, first.Media.Type)

	var second classification
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.False(t, second.Embeddable)
	assert.Nil(t, second.Media)
}

func TestMigrateArgs(t *testing.T) {
	assert.NoError(t, migrateCmd.Args(migrateCmd, []string{"status"}))
	assert.NoError(t, migrateCmd.Args(migrateCmd, nil))
	assert.Error(t, migrateCmd.Args(migrateCmd, []string{"sideways"}))
	assert.Error(t, migrateCmd.Args(migrateCmd, []string{"up", "down"}))
}
