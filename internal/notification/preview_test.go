package notification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewShortBodyUnchanged(t *testing.T) {
	assert.Equal(t, "내일 3시에 예약할게요", Preview("내일 3시에 예약할게요", false))
}

func TestPreviewAtLimitUnchanged(t *testing.T) {
	body := strings.Repeat("a", 30)
	assert.Equal(t, body, Preview(body, false))
}

func TestPreviewTruncatesLongBody(t *testing.T) {
	body := strings.Repeat("가", 45)
	got := Preview(body, false)
	assert.Equal(t, strings.Repeat("가", 30)+"...", got)
	assert.Equal(t, 33, len([]rune(got)))
}

func TestPreviewCountsRunesNotBytes(t *testing.T) {
	// 31 Hangul characters is 93 bytes but only just over the limit.
	body := strings.Repeat("가", 31)
	assert.Equal(t, strings.Repeat("가", 30)+"...", Preview(body, false))
}

func TestPreviewPhotoPlaceholder(t *testing.T) {
	assert.Equal(t, "📷 사진을 보냈습니다.", Preview("", true))
	// Photos win even when the message also has a body.
	assert.Equal(t, "📷 사진을 보냈습니다.", Preview("여기 사진이요", true))
}
