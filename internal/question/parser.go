package question

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	correctAnswerMarker = "Correct Answer:"
	rationaleMarker     = "Rationale"
)

var (
	// choiceMarker is a newline followed by A-D and "." or ")"
	choiceMarker = regexp.MustCompile(`\n[A-D][.)]`)
	// idEcho is the "ID: <hex>" line repeated at the top of a question
	idEcho       = regexp.MustCompile(`^ID:\s*[a-f0-9]+\s*\n`)
	answerLetter = regexp.MustCompile(`Correct Answer:\s*([A-D])`)

	choiceStops    = []string{"\nID:", "\n" + correctAnswerMarker}
	rationaleStops = []string{"Question Difficulty:", "Assessment"}
)

// ParseBlock extracts a record from one candidate block.
// It is a pure function of block: on rejection it returns a *RejectError
// whose Block field is left for the caller to fill in.
func ParseBlock(block string, id int) (Question, error) {
	start, ok := choiceListStart(block)
	if !ok {
		return Question{}, newReject(ReasonNoChoiceMarker)
	}

	text := questionText(block, start)
	choices := extractChoices(block)
	answer := correctAnswer(block)
	explanation := rationale(block)

	switch {
	case choices.Len() == 0:
		return Question{}, newReject(ReasonNoChoices)
	case answer == "":
		return Question{}, newReject(ReasonNoCorrectAnswer)
	case text == "":
		return Question{}, newReject(ReasonEmptyQuestion)
	}

	return Question{
		ID:            id,
		Question:      text,
		Choices:       choices,
		CorrectAnswer: answer,
		Explanation:   explanation,
	}, nil
}

// Normalize collapses every whitespace run into one space and trims the ends
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// choiceListStart returns the offset of the newline that opens the choice list
func choiceListStart(block string) (int, bool) {
	loc := choiceMarker.FindStringIndex(block)
	if loc == nil {
		return 0, false
	}
	return loc[0], true
}

// questionText is the normalized stem before the choice list, minus a leading ID echo line
func questionText(block string, start int) string {
	text := strings.TrimSpace(block[:start])
	text = idEcho.ReplaceAllString(text, "")
	return Normalize(text)
}

// choiceSegments cuts block at every choice marker, keeping the letter with its segment.
// The first segment holds whatever precedes the first marker.
func choiceSegments(block string) []string {
	locs := choiceMarker.FindAllStringIndex(block, -1)
	segments := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		segments = append(segments, block[prev:loc[0]])
		prev = loc[0] + 1
	}
	return append(segments, block[prev:])
}

// parseChoiceSegment reads "<letter><sep> text" up to the next ID line, answer marker or end
func parseChoiceSegment(seg string) (letter, text string, ok bool) {
	if len(seg) < 3 || seg[0] < 'A' || seg[0] > 'D' || (seg[1] != '.' && seg[1] != ')') {
		return "", "", false
	}
	rest := seg[2:]
	body := strings.TrimLeftFunc(rest, unicode.IsSpace)
	return seg[:1], Normalize(cutAtFirst(body, choiceStops)), true
}

// extractChoices collects every well-formed choice segment; a repeated letter overwrites
func extractChoices(block string) Choices {
	var choices Choices
	for _, seg := range choiceSegments(block) {
		if letter, text, ok := parseChoiceSegment(seg); ok {
			choices.Set(letter, text)
		}
	}
	return choices
}

// correctAnswer returns the letter after "Correct Answer:", or ""
func correctAnswer(block string) string {
	m := answerLetter.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return m[1]
}

// rationale returns the normalized text after the first "Rationale" that is
// followed by whitespace, up to a difficulty or assessment marker
func rationale(block string) string {
	offset := 0
	for {
		i := strings.Index(block[offset:], rationaleMarker)
		if i < 0 {
			return ""
		}
		start := offset + i + len(rationaleMarker)
		rest := block[start:]
		body := strings.TrimLeftFunc(rest, unicode.IsSpace)
		if len(body) == len(rest) {
			offset = start
			continue
		}
		return Normalize(cutAtFirst(body, rationaleStops))
	}
}

// cutAtFirst truncates s at the earliest stop found after its first rune
func cutAtFirst(s string, stops []string) string {
	if s == "" {
		return s
	}
	_, width := utf8.DecodeRuneInString(s)
	end := len(s)
	for _, stop := range stops {
		if i := strings.Index(s[width:], stop); i >= 0 && width+i < end {
			end = width + i
		}
	}
	return s[:end]
}
