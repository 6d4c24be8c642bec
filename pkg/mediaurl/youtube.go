package mediaurl

import (
	"regexp"
	"strings"
)

var youTubeHostRe = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/`)

// L'ordre compte : le premier motif qui matche gagne.
// L'id s'arrête au prochain '?' ou '/'.
var youTubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([^?/]+)`), // youtube.com/watch?v=ID
	regexp.MustCompile(`youtube\.com/embed/([^?/]+)`),    // youtube.com/embed/ID
	regexp.MustCompile(`youtube\.com/v/([^?/]+)`),        // youtube.com/v/ID
	regexp.MustCompile(`youtu\.be/([^?/]+)`),             // youtu.be/ID
	regexp.MustCompile(`youtube\.com/shorts/([^?/]+)`),   // youtube.com/shorts/ID
}

// IsYouTubeURL est un test purement syntaxique (aucun appel réseau).
func IsYouTubeURL(raw string) bool {
	return youTubeHostRe.MatchString(raw)
}

// ExtractYouTubeVideoID renvoie l'id vidéo tel quel, sans vérifier sa longueur ni son alphabet.
func ExtractYouTubeVideoID(raw string) (string, bool) {
	for _, re := range youTubeIDPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// IsYouTubeShorts ne vérifie pas le domaine : "shorts/abc" seul passe ici
// alors que IsYouTubeURL le refuse.
func IsYouTubeShorts(raw string) bool {
	return strings.Contains(raw, "/shorts/") || strings.Contains(raw, "youtube.com/shorts")
}
