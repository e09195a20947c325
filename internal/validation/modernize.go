package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Archaic language modernization for retrieved source text. Modern
// negation/modal phrases are shielded with placeholders before any
// substitution and restored exactly afterward, so "shall not" survives
// the pass untouched even while "shalt" elsewhere becomes "shall".
// Archaic negations (shalt not, hath not) are deliberately NOT protected:
// their verbs are supposed to modernize.

var protectedPhrases = []string{
	"shall not",
	"will not",
	"would not",
	"should not",
	"could not",
	"might not",
	"may not",
	"cannot",
	"can not",
}

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

func sub(word, replacement string) substitution {
	return substitution{regexp.MustCompile(`(?i)\b` + word + `\b`), replacement}
}

// Possessive "thine" must run before "thy" to avoid partial overlap.
var archaicPronouns = []substitution{
	sub("thine", "yours"),
	sub("thy", "your"),
	sub("thee", "you"),
	sub("thou", "you"),
	sub("ye", "you"),
}

var archaicVerbs = []substitution{
	sub("hath", "has"),
	sub("hast", "have"),
	sub("doth", "does"),
	sub("dost", "do"),
	sub("cometh", "comes"),
	sub("saith", "says"),
	sub("saieth", "says"),
	sub("wilt", "will"),
	sub("wouldst", "would"),
	sub("canst", "can"),
	sub("couldst", "could"),
	sub("shouldst", "should"),
	sub("shalt", "shall"),
	sub("seeth", "sees"),
	sub("knoweth", "knows"),
	sub("giveth", "gives"),
	sub("leadeth", "leads"),
}

// Words whose meaning has shifted since early-modern English.
var shiftedMeaning = []substitution{
	sub("charity", "love"),
	sub("conversation", "conduct"),
	sub("prevent", "precede"),
}

var protectedPatterns = func() []*regexp.Regexp {
	ps := make([]*regexp.Regexp, len(protectedPhrases))
	for i, phrase := range protectedPhrases {
		ps[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	}
	return ps
}()

// Modernize rewrites archaic second-person pronouns, verb forms, and
// shifted-meaning words to their modern equivalents. All substitutions
// are whole-word and case-insensitive; protected phrases are restored as
// their lowercase canonical forms.
func Modernize(text string) string {
	restore := make(map[string]string)
	for i, p := range protectedPatterns {
		placeholder := fmt.Sprintf("__PROTECTED_%d__", i)
		replaced := p.ReplaceAllString(text, placeholder)
		if replaced != text {
			restore[placeholder] = protectedPhrases[i]
			text = replaced
		}
	}

	for _, s := range archaicPronouns {
		text = s.pattern.ReplaceAllString(text, s.replacement)
	}
	for _, s := range archaicVerbs {
		text = s.pattern.ReplaceAllString(text, s.replacement)
	}
	for _, s := range shiftedMeaning {
		text = s.pattern.ReplaceAllString(text, s.replacement)
	}

	for placeholder, phrase := range restore {
		text = strings.ReplaceAll(text, placeholder, phrase)
	}
	return text
}
