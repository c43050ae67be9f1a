package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAttachment(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
		wantBody string
		wantOK   bool
	}{
		{
			name:     "arabic angle marker",
			text:     "<مرفق: IMG-20230101-WA0001.jpg>",
			wantName: "IMG-20230101-WA0001.jpg",
			wantBody: "",
			wantOK:   true,
		},
		{
			name:     "arabic paren marker keeps caption",
			text:     "look (مرفق: vacation photo.JPG) nice",
			wantName: "vacation photo.JPG",
			wantBody: "look  nice",
			wantOK:   true,
		},
		{
			name:     "whatsapp auto name stays in body",
			text:     "IMG-20230101-WA0001.jpg (file attached)",
			wantName: "IMG-20230101-WA0001.jpg",
			wantBody: "IMG-20230101-WA0001.jpg (file attached)",
			wantOK:   true,
		},
		{
			name:     "voice note",
			text:     "PTT-20240115-WA0000.opus",
			wantName: "PTT-20240115-WA0000.opus",
			wantBody: "PTT-20240115-WA0000.opus",
			wantOK:   true,
		},
		{
			name:     "generic numbered name",
			text:     "sent video-1-2-3.mp4 yesterday",
			wantName: "video-1-2-3.mp4",
			wantBody: "sent video-1-2-3.mp4 yesterday",
			wantOK:   true,
		},
		{
			name: "media path with spaces is not a reference",
			text: "see Media/WhatsApp Images/x.png",
		},
		{
			name:     "media relative path without spaces",
			text:     "see Media/Images/x.png",
			wantName: "Media/Images/x.png",
			wantBody: "see Media/Images/x.png",
			wantOK:   true,
		},
		{
			name:     "underscore prefixed",
			text:     "VID_20230101_120000.mp4",
			wantName: "VID_20230101_120000.mp4",
			wantBody: "VID_20230101_120000.mp4",
			wantOK:   true,
		},
		{
			name:     "english attached marker",
			text:     "<attached: 00000012-PHOTO-2023-01-01-12-00-00.jpg>",
			wantName: "00000012-PHOTO-2023-01-01-12-00-00.jpg",
			wantBody: "",
			wantOK:   true,
		},
		{
			name: "word image alone",
			text: "what an image that was",
		},
		{
			name: "unsupported extension in marker",
			text: "<مرفق: report.pdf>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAttachment(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantName, got.Filename)
			assert.Equal(t, tt.wantBody, got.Body)
		})
	}
}

func TestExtractAttachmentRuleOrder(t *testing.T) {
	// the angle marker wins over the bare auto name it contains
	got, ok := ExtractAttachment("<مرفق: VID-20230101-WA0002.mp4> and IMG-20230101-WA0001.jpg")
	require.True(t, ok)
	assert.Equal(t, "VID-20230101-WA0002.mp4", got.Filename)
	assert.Equal(t, "and IMG-20230101-WA0001.jpg", got.Body)
}

func TestExtractAttachmentStripsEveryMarker(t *testing.T) {
	got, ok := ExtractAttachment("<مرفق: a.jpg>\n<مرفق: b.jpg>")
	require.True(t, ok)
	assert.Equal(t, "a.jpg", got.Filename)
	assert.Equal(t, "", got.Body)
}
