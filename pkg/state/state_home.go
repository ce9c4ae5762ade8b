package state

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wcd-ekocoy/wow-achievements/pkg/blizzard"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"github.com/wcd-ekocoy/wow-achievements/pkg/sotah"
)

func profileDebugInfo(p *blizzard.Profile) string {
	profileState := "Null"
	wowAccounts := "Null"
	if p != nil {
		profileState = "Found"
		if p.WowAccounts != nil {
			wowAccounts = strconv.Itoa(len(p.WowAccounts))
		}
	}

	return fmt.Sprintf("Profile: %s, WowAccounts: %s", profileState, wowAccounts)
}

func (sta State) handleIndex(w http.ResponseWriter, r *http.Request) {
	vm := indexViewModel{
		layoutViewModel: sta.newLayoutViewModel(r, "Home"),
		Regions:         regionOptions,
		Region:          sta.regionFromRequest(r),
		Characters:      blizzard.Characters{},
	}

	s, ok := sessionFromContext(r.Context())
	if !ok {
		sta.render(w, indexView, http.StatusOK, vm)

		return
	}

	logging.WithField("region", vm.Region).Info("Fetching characters")

	profile, err := sta.BlizzardClient.GetProfileSummary(r.Context(), s.AccessToken, vm.Region)
	if err != nil {
		logging.WithField("error", err.Error()).Error("Error fetching characters")

		vm.ErrorMessage = fmt.Sprintf("Error loading characters: %s", err.Error())
		vm.DebugInfo = fmt.Sprintf("Exception: %T - %s", err, err.Error())
		sta.render(w, indexView, http.StatusOK, vm)

		return
	}

	if profile != nil {
		vm.Characters = profile.AllCharacters()
	}

	logging.WithField("characters", len(vm.Characters)).Info("Characters found")

	if len(vm.Characters) == 0 {
		vm.DebugInfo = profileDebugInfo(profile)
	}

	sta.render(w, indexView, http.StatusOK, vm)
}

func parsePage(value string) int {
	page, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 1
	}

	return page
}

func achievementsErrorMessage(err error) string {
	msg := err.Error()

	var statusErr *blizzard.StatusError
	var decodeErr *blizzard.DecodeError
	if !errors.As(err, &statusErr) && !errors.As(err, &decodeErr) {
		if inner := errors.Unwrap(err); inner != nil {
			msg = fmt.Sprintf("%s (%s)", msg, inner.Error())
		}
	}

	return fmt.Sprintf("Error loading achievements: %s", msg)
}

func (sta State) handleAchievements(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)

		return
	}

	query := r.URL.Query()
	realmSlug := strings.TrimSpace(query.Get("realmSlug"))
	characterName := strings.TrimSpace(query.Get("characterName"))
	if realmSlug == "" || characterName == "" {
		http.Redirect(w, r, HomePath, http.StatusFound)

		return
	}

	vm := achievementsViewModel{
		layoutViewModel: sta.newLayoutViewModel(r, characterName),
		CharacterName:   characterName,
		RealmSlug:       blizzard.RealmSlug(realmSlug),
		Region:          sta.regionFromRequest(r),
		Query:           strings.TrimSpace(query.Get("q")),
	}

	logging.WithFields(logrus.Fields{
		"character": vm.CharacterName,
		"realm":     vm.RealmSlug,
		"region":    vm.Region,
	}).Info("Fetching achievements")

	ca, err := sta.BlizzardClient.GetCharacterAchievements(
		r.Context(),
		s.AccessToken,
		vm.Region,
		vm.RealmSlug,
		vm.CharacterName,
	)
	if err != nil {
		logging.WithField("error", err.Error()).Error("Error fetching achievements")

		vm.ErrorMessage = achievementsErrorMessage(err)
		sta.render(w, achievementsView, http.StatusOK, vm)

		return
	}

	filtered := sotah.FilterAchievements(ca.Achievements, vm.Query)
	vm.setResult(ca, sotah.Paginate(filtered, parsePage(query.Get("page")), sotah.DefaultPageSize))

	logging.WithFields(logrus.Fields{
		"achievements": len(ca.Achievements),
		"matching":     len(filtered),
		"total-points": ca.TotalPoints,
	}).Info("Achievements fetched")

	sta.render(w, achievementsView, http.StatusOK, vm)
}

func (sta State) handlePrivacy(w http.ResponseWriter, r *http.Request) {
	sta.render(w, privacyView, http.StatusOK, sta.newLayoutViewModel(r, "Privacy Policy"))
}

func (sta State) handleError(w http.ResponseWriter, r *http.Request) {
	sta.renderErrorPage(w, r, http.StatusOK)
}
