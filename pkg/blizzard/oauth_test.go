package blizzard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOAuthRegion(t *testing.T) {
	expected := map[string]OAuthRegion{
		"us":      OAuthRegionAmerica,
		"US":      OAuthRegionAmerica,
		"America": OAuthRegionAmerica,
		"eu":      OAuthRegionEurope,
		" Europe": OAuthRegionEurope,
		"kr":      OAuthRegionKorea,
		"tw":      OAuthRegionTaiwan,
		"cn":      OAuthRegionChina,
		"unified": OAuthRegionUnified,
	}

	for in, out := range expected {
		got, ok := ParseOAuthRegion(in)
		if !assert.True(t, ok, in) || !assert.Equal(t, out, got, in) {
			return
		}
	}

	_, ok := ParseOAuthRegion("atlantis")
	assert.False(t, ok)
}

func TestOAuthProviderEndpoint(t *testing.T) {
	p := NewOAuthProvider("id", "secret", "http://localhost/Account/LoginCallback", nil)

	assert.Equal(t, "https://eu.battle.net/oauth/authorize", p.Endpoint("eu").AuthURL)
	assert.Equal(t, "https://eu.battle.net/oauth/token", p.Endpoint("EU").TokenURL)
	assert.Equal(t, "https://www.battlenet.com.cn/oauth/userinfo", p.Endpoint("cn").UserInfoURL)

	// unrecognized regions keep the default deployment
	assert.Equal(t, "https://oauth.battle.net/oauth/authorize", p.Endpoint("atlantis").AuthURL)
	assert.Equal(t, "https://oauth.battle.net/oauth/authorize", p.Endpoint("").AuthURL)
}

func TestOAuthProviderConfig(t *testing.T) {
	p := NewOAuthProvider("id", "secret", "http://localhost/Account/LoginCallback", nil)

	c := p.Config("kr")
	assert.Equal(t, "id", c.ClientID)
	assert.Equal(t, "secret", c.ClientSecret)
	assert.Equal(t, "http://localhost/Account/LoginCallback", c.RedirectURL)
	assert.Equal(t, []string{ProfileScope}, c.Scopes)
	assert.Equal(t, "https://kr.battle.net/oauth/token", c.Endpoint.TokenURL)

	authURL := c.AuthCodeURL("some-state")
	assert.Contains(t, authURL, "https://kr.battle.net/oauth/authorize?")
	assert.Contains(t, authURL, "state=some-state")
	assert.Contains(t, authURL, "scope=wow.profile")
}

func TestOAuthProviderCustomEndpoints(t *testing.T) {
	endpoints := OAuthEndpoints{
		OAuthRegionUnified: newOAuthEndpoint("http://127.0.0.1:1"),
		OAuthRegionEurope:  newOAuthEndpoint("http://127.0.0.1:2"),
	}
	p := NewOAuthProvider("id", "secret", "", endpoints)

	assert.Equal(t, "http://127.0.0.1:2/oauth/authorize", p.Endpoint("eu").AuthURL)

	// known region without a configured endpoint
	assert.Equal(t, "http://127.0.0.1:1/oauth/authorize", p.Endpoint("us").AuthURL)
}
