package blizzard

import (
	"context"
	"encoding/json"
)

// UserInfo - the battle.net account behind an access token
type UserInfo struct {
	Sub       string `json:"sub"`
	ID        int    `json:"id"`
	BattleTag string `json:"battletag"`
}

// NewUserInfo parses a json byte array
func NewUserInfo(body []byte) (UserInfo, error) {
	info := &UserInfo{}
	if err := json.Unmarshal(body, info); err != nil {
		return UserInfo{}, err
	}

	return *info, nil
}

// GetUserInfo fetches the account behind an access token from a userinfo endpoint
func (c Client) GetUserInfo(ctx context.Context, userInfoURL string, accessToken string) (UserInfo, error) {
	resp, err := Download(ctx, userInfoURL, accessToken, c.timeout)
	if err != nil {
		return UserInfo{}, err
	}

	if !resp.IsSuccess() {
		return UserInfo{}, &StatusError{Status: resp.Status, Body: string(resp.Body)}
	}

	info, err := NewUserInfo(resp.Body)
	if err != nil {
		return UserInfo{}, newDecodeError("userinfo", resp.Body, err)
	}

	return info, nil
}
