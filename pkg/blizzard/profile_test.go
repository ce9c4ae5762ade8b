package blizzard

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wcd-ekocoy/wow-achievements/pkg/util"
	"github.com/wcd-ekocoy/wow-achievements/pkg/utiltest"
)

func newTestClient(t *testing.T, baseURL string) Client {
	c, err := NewClient(ClientOptions{BaseURLTemplate: baseURL})
	if err != nil {
		t.Fatalf("could not create client: %s", err.Error())
	}

	return c
}

func TestNewProfile(t *testing.T) {
	body, err := util.ReadFile("./TestData/profile.json")
	if !assert.Nil(t, err) {
		return
	}

	p, err := NewProfile(body)
	if !assert.Nil(t, err) || !assert.NotNil(t, p) {
		return
	}

	if !assert.Len(t, p.WowAccounts, 3) {
		return
	}
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, 0, p.AccountID)
	assert.NotNil(t, p.WowAccounts[1].Characters)
	assert.Empty(t, p.WowAccounts[1].Characters)

	thrall := p.WowAccounts[0].Characters[0]
	assert.Equal(t, "Thrall", thrall.Name)
	assert.Equal(t, RealmSlug("area-52"), thrall.Realm.Slug)
	assert.Equal(t, "Area 52", thrall.Realm.Name)
	assert.Equal(t, 3676, thrall.Realm.ID)
	assert.Equal(t, "Orc", thrall.PlayableRace.Name)
	assert.Equal(t, "Shaman", thrall.PlayableClass.Name)
	assert.Equal(t, TypeName{Type: "HORDE", Name: "Horde"}, thrall.Faction)
	assert.Equal(t, TypeName{Type: "MALE", Name: "Male"}, thrall.Gender)
	assert.Equal(t, 80, thrall.Level)
}

func TestNewProfileDefaults(t *testing.T) {
	p, err := NewProfile([]byte(`{"id": 5}`))
	if !assert.Nil(t, err) || !assert.NotNil(t, p) {
		return
	}

	assert.NotNil(t, p.WowAccounts)
	assert.Empty(t, p.AllCharacters())
}

func TestNewProfileNull(t *testing.T) {
	p, err := NewProfile([]byte("null"))
	if !assert.Nil(t, err) {
		return
	}

	assert.Nil(t, p)
}

func TestProfileAllCharacters(t *testing.T) {
	body, err := util.ReadFile("./TestData/profile.json")
	if !assert.Nil(t, err) {
		return
	}

	p, err := NewProfile(body)
	if !assert.Nil(t, err) {
		return
	}

	names := []string{}
	for _, c := range p.AllCharacters() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Thrall", "Jaina", "Ædrïn"}, names)
}

func TestGetProfileSummary(t *testing.T) {
	body, err := util.ReadFile("./TestData/profile.json")
	if !assert.Nil(t, err) {
		return
	}

	ts, rec := utiltest.ServeRecorded(http.StatusOK, body)
	defer ts.Close()

	p, err := newTestClient(t, ts.URL).GetProfileSummary(context.Background(), "test_token", "us")
	if !assert.Nil(t, err) || !assert.NotNil(t, p) {
		return
	}
	assert.Len(t, p.AllCharacters(), 3)

	requests := rec.Requests()
	if !assert.Len(t, requests, 1) {
		return
	}
	assert.Equal(t, "/profile/user/wow", requests[0].Path)
	assert.Equal(t, "namespace=profile-us&locale=en_US", requests[0].Query)
	assert.Equal(t, "Bearer test_token", requests[0].Authorization)
}

func TestGetProfileSummaryGzipped(t *testing.T) {
	body, err := util.ReadFile("./TestData/profile.json")
	if !assert.Nil(t, err) {
		return
	}
	gzipped, err := util.GzipEncode(body)
	if !assert.Nil(t, err) {
		return
	}

	ts := utiltest.ServeGzipped(http.StatusOK, gzipped)
	defer ts.Close()

	p, err := newTestClient(t, ts.URL).GetProfileSummary(context.Background(), "test_token", "us")
	if !assert.Nil(t, err) || !assert.NotNil(t, p) {
		return
	}
	assert.Len(t, p.WowAccounts, 3)
}

func TestGetProfileSummaryUnsuccessfulResponse(t *testing.T) {
	ts := utiltest.ServeStatus(http.StatusBadRequest, []byte("Error"))
	defer ts.Close()

	p, err := newTestClient(t, ts.URL).GetProfileSummary(context.Background(), "test_token", "us")
	if !assert.Nil(t, err) {
		return
	}

	assert.Nil(t, p)
}

func TestGetProfileSummaryInvalidJSON(t *testing.T) {
	ts := utiltest.ServeStatus(http.StatusOK, []byte("{not json"))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).GetProfileSummary(context.Background(), "test_token", "us")
	if !assert.NotNil(t, err) {
		return
	}

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestGetProfileSummaryTransportFailure(t *testing.T) {
	ts := utiltest.ServeStatus(http.StatusOK, []byte("{}"))
	ts.Close()

	_, err := newTestClient(t, ts.URL).GetProfileSummary(context.Background(), "test_token", "us")
	assert.NotNil(t, err)
}
