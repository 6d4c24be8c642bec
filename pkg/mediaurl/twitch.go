package mediaurl

import (
	"regexp"
	"strings"
)

var (
	twitchHostRe    = regexp.MustCompile(`^(https?://)?(www\.)?(twitch\.tv|clips\.twitch\.tv)/`)
	twitchClipRe    = regexp.MustCompile(`clips\.twitch\.tv/([^?/]+)`)
	twitchVideoRe   = regexp.MustCompile(`twitch\.tv/videos/([^?/]+)`)
	twitchChannelRe = regexp.MustCompile(`twitch\.tv/([^?/]+)$`)
)

func IsTwitchURL(raw string) bool {
	return twitchHostRe.MatchString(raw)
}

// ExtractTwitchInfo classe dans l'ordre clip -> vidéo -> chaîne.
func ExtractTwitchInfo(raw string) (Reference, bool) {
	if m := twitchClipRe.FindStringSubmatch(raw); m != nil {
		return Reference{Platform: PlatformTwitch, Type: ResourceClip, ID: m[1]}, true
	}

	if m := twitchVideoRe.FindStringSubmatch(raw); m != nil {
		return Reference{Platform: PlatformTwitch, Type: ResourceVideo, ID: m[1]}, true
	}

	// "twitch.tv/videos" sans id n'est pas une chaîne nommée "videos"
	if m := twitchChannelRe.FindStringSubmatch(raw); m != nil && m[1] != "videos" {
		return Reference{Platform: PlatformTwitch, Type: ResourceChannel, ID: m[1]}, true
	}

	return Reference{}, false
}

func IsTwitchClip(raw string) bool {
	return strings.Contains(raw, "clips.twitch.tv")
}

func IsTwitchVideo(raw string) bool {
	return strings.Contains(raw, "twitch.tv/videos/")
}

func IsTwitchChannel(raw string) bool {
	ref, ok := ExtractTwitchInfo(raw)
	return ok && ref.Type == ResourceChannel
}
