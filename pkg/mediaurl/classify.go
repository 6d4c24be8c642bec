package mediaurl

import "strings"

// Classify renvoie la référence intégrable d'une URL, YouTube d'abord puis Twitch.
func Classify(raw string) (Reference, bool) {
	if IsYouTubeURL(raw) {
		if id, ok := ExtractYouTubeVideoID(raw); ok {
			t := ResourceVideo
			if IsYouTubeShorts(raw) {
				t = ResourceShorts
			}
			return Reference{Platform: PlatformYouTube, Type: t, ID: id}, true
		}
		return Reference{}, false
	}

	if IsTwitchURL(raw) {
		return ExtractTwitchInfo(raw)
	}

	return Reference{}, false
}

// FindInText cherche le premier lien intégrable dans un texte libre (contenu d'un post).
func FindInText(text string) (string, Reference, bool) {
	for _, token := range strings.Fields(text) {
		candidate := strings.TrimRight(token, ".,;:!?)]}\"'>")
		candidate = strings.TrimLeft(candidate, "([{\"'<")
		if ref, ok := Classify(candidate); ok {
			return candidate, ref, true
		}
	}
	return "", Reference{}, false
}
