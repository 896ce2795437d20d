package question

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultSetName is used when no set name is configured
const DefaultSetName = "SAT Questions"

// Question is one extracted multiple-choice record
type Question struct {
	ID            int     `json:"id"`
	Question      string  `json:"question"`
	Choices       Choices `json:"choices"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   string  `json:"explanation"`
}

// QuestionSet is the artifact written once per run
type QuestionSet struct {
	SetName   string     `json:"set_name"`
	Questions []Question `json:"questions"`
}

// NewQuestionSet builds a set, falling back to DefaultSetName for an empty name
func NewQuestionSet(name string, questions []Question) *QuestionSet {
	if name == "" {
		name = DefaultSetName
	}
	if questions == nil {
		questions = []Question{}
	}
	return &QuestionSet{SetName: name, Questions: questions}
}

// Choice is a single lettered answer option
type Choice struct {
	Letter string
	Text   string
}

// Choices maps letters to option text, keeping the order letters were first seen.
// Setting an existing letter replaces its text in place.
type Choices struct {
	items []Choice
}

// Set records text for letter
func (c *Choices) Set(letter, text string) {
	for i := range c.items {
		if c.items[i].Letter == letter {
			c.items[i].Text = text
			return
		}
	}
	c.items = append(c.items, Choice{Letter: letter, Text: text})
}

// Get returns the text for letter and whether it is present
func (c Choices) Get(letter string) (string, bool) {
	for _, item := range c.items {
		if item.Letter == letter {
			return item.Text, true
		}
	}
	return "", false
}

// Len returns the number of distinct letters
func (c Choices) Len() int {
	return len(c.items)
}

// Items returns a copy of the choices in insertion order
func (c Choices) Items() []Choice {
	out := make([]Choice, len(c.items))
	copy(out, c.items)
	return out
}

// Letters returns the letters in insertion order
func (c Choices) Letters() []string {
	out := make([]string, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item.Letter)
	}
	return out
}

// MarshalJSON encodes the choices as an object in insertion order
func (c Choices) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range c.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, item.Letter); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, item.Text); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, preserving key order
func (c *Choices) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("choices must be a JSON object")
	}
	c.items = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var text string
		if err := dec.Decode(&text); err != nil {
			return err
		}
		c.Set(key, text)
	}
	_, err = dec.Token()
	return err
}

// writeJSONString encodes s without HTML escaping so output matches the set encoder
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
