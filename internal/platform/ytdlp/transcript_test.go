package ytdlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSubtitleText(t *testing.T) {
	t.Parallel()

	srt := `1
00:00:01,000 --> 00:00:03,000
Welcome to the channel

2
00:00:03,000 --> 00:00:05,000
Welcome to the channel
Today we talk about goroutines

3
00:00:05,000 --> 00:00:08,000
Today we talk about goroutines
&gt;&gt; They are lightweight threads

4
00:00:08,000 --> 00:00:10,000
<c.colorCCCCCC>managed by the runtime</c>
`

	got := CleanSubtitleText(srt)
	assert.Equal(t,
		"Welcome to the channel Today we talk about goroutines They are lightweight threads",
		got)
}

func TestCleanSubtitleTextDropsStructuralLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty input", in: "", want: ""},
		{name: "only timestamps", in: "00:00:01,000 --> 00:00:02,000\n00:00:05,123\n42\n", want: ""},
		{name: "webvtt header", in: "WEBVTT\nhello there\n", want: "hello there"},
		{name: "html tags stripped", in: "<b>bold claim</b>\n", want: "bold claim"},
		{name: "whitespace collapsed", in: "too    many     spaces\n", want: "too many spaces"},
		{
			name: "duplicates keep first occurrence order",
			in:   "alpha\nbeta\nalpha\ngamma\nbeta\n",
			want: "alpha beta gamma",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanSubtitleText(tt.in))
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "watch URL",
			url:    "https://www.youtube.com/watch?v=abc12345678",
			wantID: "abc12345678",
			wantOK: true,
		},
		{
			name:   "short URL",
			url:    "https://youtu.be/abc12345678",
			wantID: "abc12345678",
			wantOK: true,
		},
		{
			name:   "embed URL",
			url:    "https://www.youtube.com/embed/abc12345678",
			wantID: "abc12345678",
			wantOK: true,
		},
		{
			name:   "watch URL with extra params",
			url:    "https://www.youtube.com/watch?t=120&v=abc12345678",
			wantID: "abc12345678",
			wantOK: true,
		},
		{
			name:   "not a video URL",
			url:    "https://www.youtube.com/feed/subscriptions",
			wantOK: false,
		},
		{
			name:   "unrelated URL",
			url:    "https://example.com/watch?v=abc12345678",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, ok := ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}
