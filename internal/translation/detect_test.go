package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "ko", DetectLanguage("안녕하세요, 내일 오후에 커트 예약하고 싶어요."))
	assert.Equal(t, "en", DetectLanguage("Hello, I would like to book a haircut for tomorrow afternoon."))
}

func TestDetectLanguageUnreliableInput(t *testing.T) {
	assert.Empty(t, DetectLanguage(""))
}
