package blizzard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
)

const profileURLFormat = "%s/profile/user/wow?%s"

// HrefReference - a link to another api resource
type HrefReference struct {
	Href string `json:"href"`
}

// RealmReference - the realm a character lives on
type RealmReference struct {
	Key  HrefReference `json:"key"`
	Name string        `json:"name"`
	ID   int           `json:"id"`
	Slug RealmSlug     `json:"slug"`
}

// PlayableReference - a playable race or class
type PlayableReference struct {
	Key  HrefReference `json:"key"`
	Name string        `json:"name"`
	ID   int           `json:"id"`
}

// TypeName - an enumerated value, e.g. gender or faction
type TypeName struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Character - a character listed on a wow account
type Character struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	Realm         RealmReference    `json:"realm"`
	PlayableRace  PlayableReference `json:"playable_race"`
	PlayableClass PlayableReference `json:"playable_class"`
	Gender        TypeName          `json:"gender"`
	Faction       TypeName          `json:"faction"`
	Level         int               `json:"level"`
}

// Characters - list of characters
type Characters []Character

// WowAccount - a game account linked to the battle.net account
type WowAccount struct {
	ID         int        `json:"id"`
	Characters Characters `json:"characters"`
}

// Profile - the profile summary of the authenticated user
type Profile struct {
	ID          int          `json:"id"`
	AccountID   int          `json:"accountId"`
	WowAccounts []WowAccount `json:"wow_accounts"`
}

// AllCharacters flattens the characters of every account, in api order
func (p Profile) AllCharacters() Characters {
	out := Characters{}
	for _, account := range p.WowAccounts {
		out = append(out, account.Characters...)
	}

	return out
}

// NewProfile parses a json byte array, returning nil when the body is a json null
func NewProfile(body []byte) (*Profile, error) {
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}

	p := &Profile{}
	if err := json.Unmarshal(body, p); err != nil {
		return nil, err
	}

	if p.WowAccounts == nil {
		p.WowAccounts = []WowAccount{}
	}
	for i, account := range p.WowAccounts {
		if account.Characters == nil {
			p.WowAccounts[i].Characters = Characters{}
		}
	}

	return p, nil
}

// ProfileURL - the profile summary url for a region
func (c Client) ProfileURL(region RegionName) string {
	return fmt.Sprintf(profileURLFormat, c.BaseURL(region), c.profileQuery(region))
}

// GetProfileSummary fetches the profile of the access token owner, a non-success status is reported as a nil profile
func (c Client) GetProfileSummary(ctx context.Context, accessToken string, region RegionName) (*Profile, error) {
	uri := c.ProfileURL(region)

	logging.WithField("url", uri).Info("Fetching profile")

	resp, err := Download(ctx, uri, accessToken, c.timeout)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		logging.WithFields(logrus.Fields{
			"status":   resp.Status,
			"response": string(resp.Body),
		}).Error("Profile API call failed")

		return nil, nil
	}

	logging.WithField("length", len(resp.Body)).Info("Profile API response received")

	p, err := NewProfile(resp.Body)
	if err != nil {
		logging.WithFields(logrus.Fields{
			"error": err.Error(),
			"json":  string(resp.Body),
		}).Error("Failed to deserialize profile")

		return nil, newDecodeError("profile", resp.Body, err)
	}

	if p == nil {
		logging.Warn("Profile deserialized to null")

		return nil, nil
	}

	logging.WithField("wow-accounts", len(p.WowAccounts)).Info("Profile deserialized")
	for _, account := range p.WowAccounts {
		logging.WithFields(logrus.Fields{
			"account":    account.ID,
			"characters": len(account.Characters),
		}).Debug("Found account")
	}

	return p, nil
}
