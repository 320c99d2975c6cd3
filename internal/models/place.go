// Package models defines core data structures for places, requests, and results.
package models

import "strings"

// Place is a normalized catalog entry. After catalog load every field is
// present with a type-correct value; optional text fields may be empty and
// (0,0) coordinates mean "location unknown".
type Place struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	Description  string        `json:"description"`
	History      string        `json:"history"`
	PersonalTips string        `json:"personal_tips"`
	Tags         []string      `json:"tags"`
	Images       []string      `json:"images"`
	Image        string        `json:"image"`
	Lat          float64       `json:"lat"`
	Lng          float64       `json:"lng"`
	City         string        `json:"city"`
	Type         string        `json:"type"`
	OpeningHours string        `json:"opening_hours,omitempty"`
	Price        string        `json:"price,omitempty"`
	BestTime     string        `json:"best_time,omitempty"`
	NearbyStalls []NearbyStall `json:"nearby_tea_stalls"`

	// Extra carries source fields that have no dedicated column, so newer
	// catalog schemas round-trip without a code change.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// NearbyStall is a secondary point of interest attached to a place.
type NearbyStall struct {
	Name      string  `json:"name"`
	DistanceM float64 `json:"distance_m,omitempty"`
	Specialty string  `json:"specialty,omitempty"`
}

// HasLocation reports whether the place has real coordinates; (0,0) is the
// "unknown location" sentinel and is excluded from geo operations.
func (p *Place) HasLocation() bool {
	return p.Lat != 0 || p.Lng != 0
}

// JoinedTags returns the lowercased tags joined by a single space. Several
// scoring rules are substring checks against this string.
func (p *Place) JoinedTags() string {
	return strings.ToLower(strings.Join(p.Tags, " "))
}

// LowerTags returns the tags lowercased, preserving order.
func (p *Place) LowerTags() []string {
	out := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		out[i] = strings.ToLower(t)
	}
	return out
}

// HasTag reports whether the place has the exact (lowercased) tag.
func (p *Place) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether any of the given lowercased tags is present.
func (p *Place) HasAnyTag(tags ...string) bool {
	for _, t := range tags {
		if p.HasTag(t) {
			return true
		}
	}
	return false
}

// SearchText returns the lowercased concatenation of the text fields used by
// keyword matching and by embedding at index-build time.
func (p *Place) SearchText() string {
	parts := []string{
		p.Name,
		p.Category,
		p.Description,
		p.History,
		p.PersonalTips,
		strings.Join(p.Tags, " "),
	}
	return strings.ToLower(strings.Join(parts, " "))
}
