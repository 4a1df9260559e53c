package translation

import "github.com/abadojack/whatlanggo"

// DetectLanguage guesses the ISO 639-1 code of the given text. Used by the
// diagnostic translate operation when the caller omits the source language;
// the chat path always knows its languages from the participants.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
