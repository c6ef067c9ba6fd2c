package site

import (
	"bytes"
	"encoding/json"
	"strings"
)

type SiteConfig struct {
	Locations Ordered[Location] `json:"locations"`
	Programs  Ordered[Program]  `json:"programs"`
}

type Location struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	FullName    string  `json:"fullName"`
	Description string  `json:"description"`
	Address     Address `json:"address"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type Program struct {
	Name     string `json:"name"`
	AgeRange string `json:"ageRange"`
}

// BadgeColor is the visual tag of an opening's status badge.
type BadgeColor string

const (
	BadgeGreen  BadgeColor = "green"
	BadgeYellow BadgeColor = "yellow"
	BadgeOrange BadgeColor = "orange"
	BadgeRed    BadgeColor = "red"
	BadgeBlue   BadgeColor = "blue"
	BadgeGray   BadgeColor = "gray"

	DefaultBadgeColor = BadgeGray
)

// Resolve returns c when it is a known color and DefaultBadgeColor otherwise.
func (c BadgeColor) Resolve() BadgeColor {
	switch BadgeColor(strings.ToLower(strings.TrimSpace(string(c)))) {
	case BadgeGreen:
		return BadgeGreen
	case BadgeYellow:
		return BadgeYellow
	case BadgeOrange:
		return BadgeOrange
	case BadgeRed:
		return BadgeRed
	case BadgeBlue:
		return BadgeBlue
	}
	return DefaultBadgeColor
}

// Class is the CSS modifier class for the resolved color.
func (c BadgeColor) Class() string {
	return "badge--" + string(c.Resolve())
}

type Opening struct {
	StatusText string     `json:"statusText"`
	BadgeColor BadgeColor `json:"badgeColor"`
	Note       string     `json:"note,omitempty"`
}

// OpeningsData is the sparse status table keyed by storage bucket, then program.
type OpeningsData struct {
	LastUpdated string
	Buckets     map[string]map[string]Opening
}

const lastUpdatedKey = "_lastUpdated"

func (o *OpeningsData) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := OpeningsData{Buckets: make(map[string]map[string]Opening)}
	for key, msg := range raw {
		if key == lastUpdatedKey {
			if err := json.Unmarshal(msg, &out.LastUpdated); err != nil {
				return err
			}
			continue
		}
		if strings.HasPrefix(key, "_") {
			continue
		}
		var programs map[string]*Opening
		if err := json.Unmarshal(msg, &programs); err != nil {
			return err
		}
		if programs == nil {
			continue
		}
		bucket := make(map[string]Opening, len(programs))
		for prog, op := range programs {
			if op != nil {
				bucket[prog] = *op
			}
		}
		out.Buckets[key] = bucket
	}
	*o = out
	return nil
}

type ContentData struct {
	Testimonials      []Testimonial      `json:"testimonials"`
	EnrollmentProcess *EnrollmentProcess `json:"enrollmentProcess"`
}

type Testimonial struct {
	Quote   string `json:"quote"`
	Author  string `json:"author"`
	Details string `json:"details"`
}

type EnrollmentProcess struct {
	Steps []Step `json:"steps"`
}

type Step struct {
	Number      StepNumber `json:"number"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

// StepNumber keeps a step's number as text, whether the source wrote 1 or "1".
type StepNumber string

func (n *StepNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = StepNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = StepNumber(num.String())
	return nil
}

// Steps is nil-safe access to the enrollment step list.
func (c ContentData) Steps() []Step {
	if c.EnrollmentProcess == nil {
		return nil
	}
	return c.EnrollmentProcess.Steps
}
