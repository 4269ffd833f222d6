package bundle

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Marshal renders the canonical JSON document for b. A blank quest code is
// rejected, since Decode would refuse the result.
func Marshal(b Bundle) ([]byte, error) {
	if strings.TrimSpace(b.Quest.Code) == "" {
		return nil, malformed("quest code is empty")
	}
	if b.Questions == nil {
		b.Questions = []Question{}
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	return data, nil
}

// Encode returns the qrexport:// transport URI for b.
func Encode(b Bundle) (string, error) {
	data, err := Marshal(b)
	if err != nil {
		return "", err
	}
	return uriPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// Decode accepts a qrexport:// URI, a bare base64 payload or a raw JSON
// document. Any failure wraps ErrMalformed.
func Decode(payload string) (Bundle, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Bundle{}, malformed("empty payload")
	}

	var data []byte
	switch {
	case strings.HasPrefix(payload, "{"):
		data = []byte(payload)
	case strings.Contains(payload, "://"):
		encoded, err := dataParam(payload)
		if err != nil {
			return Bundle{}, err
		}
		if data, err = decodeBase64(encoded); err != nil {
			return Bundle{}, err
		}
	default:
		var err error
		if data, err = decodeBase64(payload); err != nil {
			return Bundle{}, err
		}
	}
	return Unmarshal(data)
}

type wireQuest struct {
	ID    *int    `json:"id"`
	Title *string `json:"title"`
	Code  *string `json:"code"`
}

type wireQuestion struct {
	ID           *int    `json:"id"`
	QuestID      *int    `json:"questId"`
	QuestionText *string `json:"questionText"`
	Answer       *string `json:"answer"`
	Location     *string `json:"location"`
}

type wireBundle struct {
	Quest     *wireQuest      `json:"quest"`
	Questions *[]wireQuestion `json:"questions"`
}

// Unmarshal parses the JSON document strictly: every field is required and
// unknown fields or trailing data are rejected.
func Unmarshal(data []byte) (Bundle, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w wireBundle
	if err := dec.Decode(&w); err != nil {
		return Bundle{}, malformed("invalid json: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Bundle{}, malformed("trailing data after json document")
	}

	if w.Quest == nil {
		return Bundle{}, malformed("missing field quest")
	}
	if w.Quest.ID == nil || w.Quest.Title == nil || w.Quest.Code == nil {
		return Bundle{}, malformed("quest requires id, title and code")
	}
	if strings.TrimSpace(*w.Quest.Code) == "" {
		return Bundle{}, malformed("quest code is empty")
	}
	if w.Questions == nil || *w.Questions == nil {
		return Bundle{}, malformed("missing field questions")
	}

	b := Bundle{
		Quest: Quest{
			ID:    *w.Quest.ID,
			Title: *w.Quest.Title,
			Code:  *w.Quest.Code,
		},
		Questions: make([]Question, 0, len(*w.Questions)),
	}
	for i, q := range *w.Questions {
		if q.ID == nil || q.QuestID == nil || q.QuestionText == nil || q.Answer == nil || q.Location == nil {
			return Bundle{}, malformed("question %d requires id, questId, questionText, answer and location", i)
		}
		b.Questions = append(b.Questions, Question{
			ID:           *q.ID,
			QuestID:      *q.QuestID,
			QuestionText: *q.QuestionText,
			Answer:       *q.Answer,
			Location:     *q.Location,
		})
	}
	return b, nil
}

// dataParam pulls the data query parameter out of a qrexport URI without
// form-decoding it, so '+' from the base64 alphabet survives.
func dataParam(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", malformed("invalid uri: %v", err)
	}
	if u.Scheme != Scheme || u.Host != Host {
		return "", malformed("unsupported uri %s://%s", u.Scheme, u.Host)
	}
	for _, pair := range strings.Split(u.RawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key != DataParam {
			continue
		}
		unescaped, err := url.PathUnescape(value)
		if err != nil {
			return "", malformed("invalid data parameter: %v", err)
		}
		if unescaped == "" {
			break
		}
		return unescaped, nil
	}
	return "", malformed("uri has no %s parameter", DataParam)
}

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(s string) ([]byte, error) {
	// Some scanners form-decode the URI and turn '+' into ' '.
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "+")
	for _, enc := range encodings {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, malformed("payload is not valid base64")
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
