// Package profanity wraps the lexicon-based screen applied to post titles,
// descriptions and outbound contact emails.
package profanity

import (
	goaway "github.com/TwiN/go-away"
)

type Screen struct {
	detector *goaway.ProfanityDetector
}

func NewScreen() *Screen {
	return &Screen{
		detector: goaway.NewProfanityDetector().WithSanitizeLeetSpeak(true),
	}
}

// IsProfane reports whether any of the supplied text fragments contains a
// lexicon hit.
func (s *Screen) IsProfane(texts ...string) bool {
	for _, t := range texts {
		if t == "" {
			continue
		}
		if s.detector.IsProfane(t) {
			return true
		}
	}
	return false
}
