package blizzard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const characterAchievementsURLFormat = "%s/profile/wow/character/%s/%s/achievements?%s"

// AchievementInfo - the definition of an achievement
type AchievementInfo struct {
	Key         *HrefReference `json:"key,omitempty"`
	Name        string         `json:"name"`
	ID          int            `json:"id"`
	Description *string        `json:"description,omitempty"`
	Points      *int           `json:"points,omitempty"`
}

// AchievementCriteria - a node in the criteria tree of an achievement
type AchievementCriteria struct {
	ID            *int                  `json:"id,omitempty"`
	IsCompleted   *bool                 `json:"is_completed,omitempty"`
	ChildCriteria []AchievementCriteria `json:"child_criteria,omitempty"`
}

// AdditionalField - an achievement field without a dedicated struct field
type AdditionalField struct {
	Name  string
	Value json.RawMessage
}

// AdditionalFields - unrecognized fields, in document order
type AdditionalFields []AdditionalField

// Get looks up an additional field by name
func (fields AdditionalFields) Get(name string) (json.RawMessage, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return nil, false
}

var knownAchievementFields = map[string]struct{}{
	"id":                  {},
	"achievement":         {},
	"criteria":            {},
	"completed_timestamp": {},
}

// Achievement - a character's progress on one achievement
type Achievement struct {
	ID                 *int                 `json:"id,omitempty"`
	AchievementInfo    *AchievementInfo     `json:"achievement,omitempty"`
	Criteria           *AchievementCriteria `json:"criteria,omitempty"`
	CompletedTimestamp *int64               `json:"completed_timestamp,omitempty"`

	AdditionalData AdditionalFields `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps every other field in AdditionalData
func (a *Achievement) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	type knownAchievement Achievement
	k := knownAchievement{}
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}

	fields, err := decodeObjectFields(data)
	if err != nil {
		return err
	}

	k.AdditionalData = nil
	for _, f := range fields {
		if _, ok := knownAchievementFields[f.Name]; ok {
			continue
		}

		k.AdditionalData = append(k.AdditionalData, f)
	}

	*a = Achievement(k)

	return nil
}

func decodeObjectFields(data []byte) (AdditionalFields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("achievement is not a json object")
	}

	out := AdditionalFields{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("achievement field name is not a string")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		out = append(out, AdditionalField{Name: key, Value: value})
	}

	return out, nil
}

// IsCompleted - an achievement is completed iff it carries a completion timestamp
func (a Achievement) IsCompleted() bool {
	return a.CompletedTimestamp != nil
}

// CompletedAt - the completion time, zero when not completed
func (a Achievement) CompletedAt() time.Time {
	if a.CompletedTimestamp == nil {
		return time.Time{}
	}

	return time.UnixMilli(*a.CompletedTimestamp).UTC()
}

// Name - the achievement name, blank when the definition is missing
func (a Achievement) Name() string {
	if a.AchievementInfo == nil {
		return ""
	}

	return a.AchievementInfo.Name
}

// Achievements - list of achievements
type Achievements []Achievement

// CharacterReference - the character owning an achievements summary
type CharacterReference struct {
	Key   HrefReference  `json:"key"`
	Name  string         `json:"name"`
	ID    int            `json:"id"`
	Realm RealmReference `json:"realm"`
}

// CharacterAchievements - the achievements summary of a character
type CharacterAchievements struct {
	Links         map[string]HrefReference `json:"_links,omitempty"`
	Character     *CharacterReference      `json:"character,omitempty"`
	TotalQuantity *int                     `json:"total_quantity,omitempty"`
	TotalPoints   int                      `json:"total_points"`
	Achievements  Achievements             `json:"achievements"`
}

// NewCharacterAchievements parses a json byte array, an empty body or a json null is a decode error
func NewCharacterAchievements(body []byte) (CharacterAchievements, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return CharacterAchievements{}, newDecodeError("achievements", body, nil)
	}

	ca := &CharacterAchievements{}
	if err := json.Unmarshal(body, ca); err != nil {
		return CharacterAchievements{}, newDecodeError("achievements", body, err)
	}

	if ca.Achievements == nil {
		ca.Achievements = Achievements{}
	}

	return *ca, nil
}

// CharacterAchievementsURL - the achievements url, realm slug and character name are lower-cased and escaped
func (c Client) CharacterAchievementsURL(region RegionName, realmSlug RealmSlug, characterName string) string {
	// casers hold state, one per call
	lower := cases.Lower(language.Und)

	return fmt.Sprintf(
		characterAchievementsURLFormat,
		c.BaseURL(region),
		escapeSegment(lower.String(string(realmSlug))),
		escapeSegment(lower.String(characterName)),
		c.profileQuery(region),
	)
}

// escapeSegment - every byte outside the unreserved set is percent-encoded
func escapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// GetCharacterAchievements fetches the achievements summary of a character
func (c Client) GetCharacterAchievements(
	ctx context.Context,
	accessToken string,
	region RegionName,
	realmSlug RealmSlug,
	characterName string,
) (CharacterAchievements, error) {
	uri := c.CharacterAchievementsURL(region, realmSlug, characterName)

	logging.WithFields(logrus.Fields{
		"realm":     realmSlug,
		"character": characterName,
		"url":       uri,
	}).Info("Fetching achievements")

	resp, err := Download(ctx, uri, accessToken, c.timeout)
	if err != nil {
		return CharacterAchievements{}, err
	}

	if !resp.IsSuccess() {
		logging.WithFields(logrus.Fields{
			"status":   resp.Status,
			"response": string(resp.Body),
		}).Error("Achievements API call failed")

		return CharacterAchievements{}, &StatusError{Status: resp.Status, Body: string(resp.Body)}
	}

	logging.WithField("length", len(resp.Body)).Info("Achievements API response received")

	ca, err := NewCharacterAchievements(resp.Body)
	if err != nil {
		logging.WithFields(logrus.Fields{
			"error": err.Error(),
			"json":  snippet(resp.Body, 2000),
		}).Error("Failed to deserialize achievements")

		return CharacterAchievements{}, err
	}

	logging.WithFields(logrus.Fields{
		"achievements": len(ca.Achievements),
		"total-points": ca.TotalPoints,
	}).Info("Achievements deserialized")

	return ca, nil
}
