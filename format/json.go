package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/pegmatch/peg"
)

type JSONEncoder struct {
	w      io.Writer
	result *peg.Result
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(result *peg.Result) error {
	e.result = result
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := e.buildResult()
	return json.MarshalIndent(data, "", "  ")
}

type jsonResult struct {
	Grammar  string      `json:"grammar"`
	Success  bool        `json:"success"`
	Start    int         `json:"start"`
	Length   int         `json:"length"`
	Matches  []jsonMatch `json:"matches,omitempty"`
	Error    string      `json:"error,omitempty"`
	ErrorPos int         `json:"errorPos,omitempty"`
}

type jsonMatch struct {
	Name     string      `json:"name"`
	Start    int         `json:"start"`
	Length   int         `json:"length"`
	Text     string      `json:"text"`
	Children []jsonMatch `json:"children,omitempty"`
}

func (e *JSONEncoder) buildResult() jsonResult {
	r := e.result
	data := jsonResult{
		Grammar: r.Grammar.Name(),
		Success: r.Success(),
		Start:   r.Start,
		Length:  r.Length,
		Matches: buildMatches(r.Matches()),
	}
	if !r.Success() {
		data.Error = r.ErrorMessage()
		data.ErrorPos = r.ErrorPos
	}
	return data
}

func buildMatches(matches []*peg.Match) []jsonMatch {
	if len(matches) == 0 {
		return nil
	}
	result := make([]jsonMatch, len(matches))
	for i, m := range matches {
		result[i] = jsonMatch{
			Name:     m.Name,
			Start:    m.Start,
			Length:   m.Length,
			Text:     m.Text(),
			Children: buildMatches(m.Children),
		}
	}
	return result
}
