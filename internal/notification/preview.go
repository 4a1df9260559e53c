package notification

// photoPlaceholder replaces the text preview entirely when a message carries
// photo attachments.
const photoPlaceholder = "📷 사진을 보냈습니다."

// previewLimit is the maximum number of characters shown from a message body.
const previewLimit = 30

// Preview builds the notification body preview of a message: the photo
// placeholder when photos are attached, otherwise the body truncated to 30
// characters with an ellipsis.
func Preview(body string, hasPhotos bool) string {
	if hasPhotos {
		return photoPlaceholder
	}

	runes := []rune(body)
	if len(runes) <= previewLimit {
		return body
	}
	return string(runes[:previewLimit]) + "..."
}
