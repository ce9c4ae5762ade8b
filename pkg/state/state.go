package state

import (
	"net/http"
	"time"

	"github.com/twinj/uuid"
	"github.com/wcd-ekocoy/wow-achievements/pkg/blizzard"
	"github.com/wcd-ekocoy/wow-achievements/pkg/database"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"github.com/wcd-ekocoy/wow-achievements/pkg/sotah"
)

/*
routes served by the state
*/
const (
	HomePath          = "/"
	HomeIndexPath     = "/Home/Index"
	LoginPath         = "/Account/Login"
	LoginCallbackPath = "/Account/LoginCallback"
	LogoutPath        = "/Account/Logout"
	AchievementsPath  = "/Home/Achievements"
	PrivacyPath       = "/Home/Privacy"
	ErrorPath         = "/Home/Error"
)

// NewState - generates a state serving the web application
func NewState(
	c sotah.Config,
	client blizzard.Client,
	provider blizzard.OAuthProvider,
	sessions database.Database,
) State {
	return State{
		RunID:          uuid.NewV4(),
		Config:         c,
		BlizzardClient: client,
		OAuthProvider:  provider,
		Sessions:       sessions,
		Clock:          time.Now,
		views:          mustParseViews(),
	}
}

// State - everything a request needs, built once at startup
type State struct {
	RunID          uuid.UUID
	Config         sotah.Config
	BlizzardClient blizzard.Client
	OAuthProvider  blizzard.OAuthProvider
	Sessions       database.Database
	Clock          func() time.Time

	views views
}

func (sta State) now() time.Time {
	if sta.Clock == nil {
		return time.Now().UTC()
	}

	return sta.Clock().UTC()
}

// Handler - the routed and wrapped http handler
func (sta State) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", sta.handleIndex)
	mux.HandleFunc("GET /Home", sta.handleIndex)
	mux.HandleFunc("GET "+HomeIndexPath, sta.handleIndex)
	mux.HandleFunc("GET "+LoginPath, sta.handleLogin)
	mux.HandleFunc("GET "+LoginCallbackPath, sta.handleLoginCallback)
	mux.HandleFunc("GET "+LogoutPath, sta.handleLogout)
	mux.HandleFunc("GET "+AchievementsPath, sta.handleAchievements)
	mux.HandleFunc("GET "+PrivacyPath, sta.handlePrivacy)
	mux.HandleFunc("GET "+ErrorPath, sta.handleError)

	logging.WithField("run-id", sta.RunID.String()).Info("Routes registered")

	return sta.withRequestID(sta.withRecovery(sta.withDuration(sta.withSession(mux))))
}
