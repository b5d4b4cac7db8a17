package domain

import "strings"

// Source identifies the external platform a review originated from.
type Source string

const (
	SourceAmazon     Source = "amazon"
	SourceAliExpress Source = "aliexpress"
	SourceEbay       Source = "ebay"
	SourceWalmart    Source = "walmart"
	SourceJudgeMe    Source = "judgeme"
	SourceLoox       Source = "loox"
	SourceYotpo      Source = "yotpo"
	SourceStamped    Source = "stamped"
	SourceRivyo      Source = "rivyo"
	SourceGeneric    Source = "generic"
)

// AllSources lists every known review source.
var AllSources = []Source{
	SourceAmazon,
	SourceAliExpress,
	SourceEbay,
	SourceWalmart,
	SourceJudgeMe,
	SourceLoox,
	SourceYotpo,
	SourceStamped,
	SourceRivyo,
	SourceGeneric,
}

var sourceSet = func() map[Source]struct{} {
	m := make(map[Source]struct{}, len(AllSources))
	for _, s := range AllSources {
		m[s] = struct{}{}
	}
	return m
}()

// ParseSource maps a free-form source label to a known Source. Unknown labels
// map to SourceGeneric with ok=false, so callers can distinguish a typo from
// an intentional generic import.
func ParseSource(raw string) (Source, bool) {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := sourceSet[s]; ok {
		return s, true
	}
	return SourceGeneric, false
}

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	_, ok := sourceSet[s]
	return ok
}

func (s Source) String() string {
	return string(s)
}
