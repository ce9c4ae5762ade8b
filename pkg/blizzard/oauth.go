package blizzard

import (
	"strings"

	"golang.org/x/oauth2"
)

// AuthenticationScheme - name of the battle.net identity scheme
const AuthenticationScheme = "BattleNet"

// ProfileScope - oauth scope granting access to the wow profile api
const ProfileScope = "wow.profile"

// OAuthRegion - a battle.net oauth deployment
type OAuthRegion string

/*
OAuthRegions - battle.net oauth deployments
*/
const (
	OAuthRegionUnified OAuthRegion = "unified"
	OAuthRegionAmerica OAuthRegion = "america"
	OAuthRegionEurope  OAuthRegion = "europe"
	OAuthRegionKorea   OAuthRegion = "korea"
	OAuthRegionTaiwan  OAuthRegion = "taiwan"
	OAuthRegionChina   OAuthRegion = "china"
)

var oauthRegionAliases = map[string]OAuthRegion{
	"us":      OAuthRegionAmerica,
	"america": OAuthRegionAmerica,
	"eu":      OAuthRegionEurope,
	"europe":  OAuthRegionEurope,
	"kr":      OAuthRegionKorea,
	"korea":   OAuthRegionKorea,
	"tw":      OAuthRegionTaiwan,
	"taiwan":  OAuthRegionTaiwan,
	"cn":      OAuthRegionChina,
	"china":   OAuthRegionChina,
	"unified": OAuthRegionUnified,
}

// ParseOAuthRegion resolves a region code or deployment name, case-insensitively
func ParseOAuthRegion(region string) (OAuthRegion, bool) {
	out, ok := oauthRegionAliases[strings.ToLower(strings.TrimSpace(region))]

	return out, ok
}

// OAuthEndpoint - the authorize, token and userinfo urls of a deployment
type OAuthEndpoint struct {
	oauth2.Endpoint
	UserInfoURL string
}

func newOAuthEndpoint(host string) OAuthEndpoint {
	return OAuthEndpoint{
		Endpoint: oauth2.Endpoint{
			AuthURL:   host + "/oauth/authorize",
			TokenURL:  host + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		UserInfoURL: host + "/oauth/userinfo",
	}
}

// OAuthEndpoints - endpoints per deployment
type OAuthEndpoints map[OAuthRegion]OAuthEndpoint

// DefaultOAuthEndpoints are the public battle.net endpoints
func DefaultOAuthEndpoints() OAuthEndpoints {
	return OAuthEndpoints{
		OAuthRegionUnified: newOAuthEndpoint("https://oauth.battle.net"),
		OAuthRegionAmerica: newOAuthEndpoint("https://us.battle.net"),
		OAuthRegionEurope:  newOAuthEndpoint("https://eu.battle.net"),
		OAuthRegionKorea:   newOAuthEndpoint("https://kr.battle.net"),
		OAuthRegionTaiwan:  newOAuthEndpoint("https://tw.battle.net"),
		OAuthRegionChina:   newOAuthEndpoint("https://www.battlenet.com.cn"),
	}
}

// NewOAuthProvider - generates a provider for the authorization code flow against battle.net
func NewOAuthProvider(clientID string, clientSecret string, redirectURL string, endpoints OAuthEndpoints) OAuthProvider {
	if endpoints == nil {
		endpoints = DefaultOAuthEndpoints()
	}

	return OAuthProvider{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{ProfileScope},
		Endpoints:    endpoints,
	}
}

// OAuthProvider - builds oauth2 configs for the region picked by the user
type OAuthProvider struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Endpoints    OAuthEndpoints
}

// Endpoint selects the deployment for a region, unrecognized regions get the unified deployment
func (p OAuthProvider) Endpoint(region RegionName) OAuthEndpoint {
	if oauthRegion, ok := ParseOAuthRegion(string(region)); ok {
		if endpoint, ok := p.Endpoints[oauthRegion]; ok {
			return endpoint
		}
	}

	return p.Endpoints[OAuthRegionUnified]
}

// Config - the oauth2 config for a region
func (p OAuthProvider) Config(region RegionName) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  p.RedirectURL,
		Scopes:       p.Scopes,
		Endpoint:     p.Endpoint(region).Endpoint,
	}
}
