package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is the service's status block. Code "0" means success.
type Status struct {
	Code FlexString `json:"code"`
	Msg  string     `json:"msg"`
}

// ClassResponse is the class-2.0 response body.
type ClassResponse struct {
	Status       *Status    `json:"status,omitempty"`
	CategoryList []Category `json:"category_list"`
}

func (r *ClassResponse) status() *Status { return r.Status }

// Category is one classification label, e.g. "News>Sports".
type Category struct {
	Code      string    `json:"code"`
	Label     string    `json:"label"`
	Relevance Relevance `json:"relevance"`
}

// TopicsResponse is the topics-2.0 response body.
type TopicsResponse struct {
	Status      *Status   `json:"status,omitempty"`
	ConceptList []Concept `json:"concept_list"`
}

func (r *TopicsResponse) status() *Status { return r.Status }

// Concept is one extracted concept.
type Concept struct {
	Form      string    `json:"form"`
	Relevance Relevance `json:"relevance"`
}

// Relevance is a 0-100 score sent as a numeric string ("45.0") or a number.
// Missing or unparsable values decode to 0.
type Relevance float64

func (r *Relevance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("relevance: %w", err)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*r = 0
			return nil
		}
		*r = Relevance(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("relevance: %w", err)
	}
	*r = Relevance(f)
	return nil
}

// FlexString accepts a JSON string or number.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("status code: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}
