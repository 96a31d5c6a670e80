package domain

import (
	"regexp"
	"strings"
	"time"
)

// ReleaseType classifies how a figure was sold.
type ReleaseType string

const (
	ReleaseRetail         ReleaseType = "retail"
	ReleaseWebExclusive   ReleaseType = "web_exclusive"
	ReleaseEventExclusive ReleaseType = "event_exclusive"
	ReleaseSDCC           ReleaseType = "sdcc"
	ReleaseReissue        ReleaseType = "reissue"
	ReleaseUnknown        ReleaseType = "unknown"
)

var releaseTypes = map[ReleaseType]struct{}{
	ReleaseRetail: {}, ReleaseWebExclusive: {}, ReleaseEventExclusive: {},
	ReleaseSDCC: {}, ReleaseReissue: {}, ReleaseUnknown: {},
}

// Valid reports whether r is a known release type.
func (r ReleaseType) Valid() bool {
	_, ok := releaseTypes[r]
	return ok
}

// BodyVersion is the manufacturer's coarse body generation.
type BodyVersion string

const (
	BodyV1    BodyVersion = "V1_0"
	BodyV2    BodyVersion = "V2_0"
	BodyV3    BodyVersion = "V3_0"
	BodyOther BodyVersion = "OTHER"
)

// Valid reports whether b is a known body version.
func (b BodyVersion) Valid() bool {
	switch b {
	case BodyV1, BodyV2, BodyV3, BodyOther:
		return true
	}
	return false
}

// Figure is a catalog entry.
type Figure struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Slug           *string      `json:"slug,omitempty"`
	Character      string       `json:"character"`
	CharacterBase  *string      `json:"characterBase,omitempty"`
	Variant        *string      `json:"variant,omitempty"`
	Line           string       `json:"line"`
	ReleaseYear    int          `json:"releaseYear"`
	ReleaseType    *ReleaseType `json:"releaseType,omitempty"`
	BodyVersion    *BodyVersion `json:"bodyVersion,omitempty"`
	BodyVersionTag *string      `json:"bodyVersionTag,omitempty"`
	Saga           *string      `json:"saga,omitempty"`
	MSRPCents      int64        `json:"msrpCents"`
	MSRPCurrency   string       `json:"msrpCurrency"`
	Image          string       `json:"image"`
	SeriesID       string       `json:"seriesId"`
	Series         string       `json:"series"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

var characterVariant = regexp.MustCompile(`^(.+?)\s*\((.+)\)\s*$`)

// SplitCharacter splits "Base (Variant)" into its parts. Names without a
// parenthesised suffix return an empty variant.
func SplitCharacter(name string) (base, variant string) {
	if m := characterVariant.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(name), ""
}
