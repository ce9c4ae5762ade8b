package state

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/twinj/uuid"
	"github.com/wcd-ekocoy/wow-achievements/pkg/blizzard"
	"github.com/wcd-ekocoy/wow-achievements/pkg/database"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"golang.org/x/oauth2"
)

const (
	regionCookieName  = "region"
	regionCookieTTL   = time.Hour
	sessionCookieName = "session"
)

type loginDecision int

const (
	loginRedirectHome loginDecision = iota
	loginChallenge
)

// resolveLogin - an authenticated user or a missing region goes home, otherwise a challenge is issued
func resolveLogin(authenticated bool, region string) loginDecision {
	if authenticated {
		return loginRedirectHome
	}

	if strings.TrimSpace(region) == "" {
		return loginRedirectHome
	}

	return loginChallenge
}

// regionFromRequest - the region cookie, or the configured default when absent or not a region name
func (sta State) regionFromRequest(r *http.Request) blizzard.RegionName {
	cookie, err := r.Cookie(regionCookieName)
	if err != nil {
		return sta.Config.DefaultRegion
	}

	return sta.sanitizeRegion(cookie.Value)
}

func (sta State) sanitizeRegion(region string) blizzard.RegionName {
	name := blizzard.RegionName(strings.TrimSpace(region))
	if !name.IsValid() {
		return sta.Config.DefaultRegion
	}

	return name
}

func (sta State) setRegionCookie(w http.ResponseWriter, region string) {
	http.SetCookie(w, &http.Cookie{
		Name:    regionCookieName,
		Value:   region,
		Path:    "/",
		Expires: sta.now().Add(regionCookieTTL),
		MaxAge:  int(regionCookieTTL.Seconds()),
	})
}

func (sta State) setSessionCookie(w http.ResponseWriter, s database.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   sta.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (sta State) expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sta.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (sta State) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, authenticated := sessionFromContext(r.Context())
	region := strings.TrimSpace(r.URL.Query().Get("region"))

	if resolveLogin(authenticated, region) == loginRedirectHome {
		http.Redirect(w, r, HomePath, http.StatusFound)

		return
	}

	region = string(sta.sanitizeRegion(region))
	pending := database.PendingLogin{
		State:       uuid.NewV4().String(),
		Scheme:      blizzard.AuthenticationScheme,
		Region:      blizzard.RegionName(region),
		RedirectURI: LoginCallbackPath,
		ExpiresAt:   sta.now().Add(sta.Config.PendingLoginTTL),
	}
	if err := sta.Sessions.PersistPendingLogin(pending); err != nil {
		logging.WithField("error", err.Error()).Error("Failed to persist pending login")

		sta.renderErrorPage(w, r, http.StatusInternalServerError)

		return
	}

	sta.setRegionCookie(w, region)

	authURL := sta.OAuthProvider.Config(pending.Region).AuthCodeURL(pending.State)

	logging.WithFields(logrus.Fields{
		"region": region,
		"scheme": pending.Scheme,
	}).Info("Issuing authentication challenge")

	http.Redirect(w, r, authURL, http.StatusFound)
}

func (sta State) exchangeContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: sta.Config.RequestTimeout})
}

func (sta State) handleLoginCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if providerErr := query.Get("error"); providerErr != "" {
		logging.WithFields(logrus.Fields{
			"error":       providerErr,
			"description": query.Get("error_description"),
		}).Warn("Identity provider returned an error")

		http.Redirect(w, r, HomePath, http.StatusFound)

		return
	}

	code := query.Get("code")
	if code == "" {
		http.Redirect(w, r, HomePath, http.StatusFound)

		return
	}

	pending, err := sta.Sessions.ConsumePendingLogin(query.Get("state"), sta.now())
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			logging.WithField("error", err.Error()).Error("Failed to consume pending login")

			sta.renderErrorPage(w, r, http.StatusInternalServerError)

			return
		}

		logging.Warn("Login callback with unknown or expired state")
		http.Error(w, "invalid or expired login state", http.StatusBadRequest)

		return
	}

	token, err := sta.OAuthProvider.Config(pending.Region).Exchange(sta.exchangeContext(r.Context()), code)
	if err != nil {
		logging.WithFields(logrus.Fields{
			"error":  err.Error(),
			"region": pending.Region,
		}).Error("Failed to exchange authorization code")

		http.Error(w, "failed to exchange authorization code", http.StatusBadGateway)

		return
	}

	s := database.Session{
		ID:          uuid.NewV4().String(),
		Scheme:      pending.Scheme,
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		TokenExpiry: token.Expiry.UTC(),
		Region:      pending.Region,
		CreatedAt:   sta.now(),
		ExpiresAt:   sta.now().Add(sta.Config.SessionTTL),
	}

	userInfo, err := sta.BlizzardClient.GetUserInfo(
		r.Context(),
		sta.OAuthProvider.Endpoint(pending.Region).UserInfoURL,
		token.AccessToken,
	)
	if err != nil {
		logging.WithField("error", err.Error()).Warn("Failed to fetch userinfo")
	} else {
		s.BattleTag = userInfo.BattleTag
	}

	if err := sta.Sessions.PersistSession(s); err != nil {
		logging.WithField("error", err.Error()).Error("Failed to persist session")

		sta.renderErrorPage(w, r, http.StatusInternalServerError)

		return
	}

	sta.setSessionCookie(w, s)

	logging.WithFields(logrus.Fields{
		"region":    s.Region,
		"battletag": s.BattleTag,
	}).Info("Signed in")

	http.Redirect(w, r, HomePath, http.StatusFound)
}

func (sta State) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s, ok := sessionFromContext(r.Context()); ok {
		if err := sta.Sessions.DeleteSession(s.ID); err != nil {
			logging.WithField("error", err.Error()).Error("Failed to delete session")
		}
	}

	sta.expireSessionCookie(w)
	http.Redirect(w, r, HomePath, http.StatusFound)
}
