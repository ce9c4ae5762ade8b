package blizzard

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// RegionPlaceholder is substituted with the region name in the base url template
	RegionPlaceholder = "{region}"

	// DefaultLocale is the locale requested from the profile api
	DefaultLocale = "en_US"

	// DefaultTimeout applies to every profile api request
	DefaultTimeout = 10 * time.Second
)

// RegionName - region code, e.g. us or eu
type RegionName string

// DefaultRegionName is used when no region has been chosen
const DefaultRegionName RegionName = "us"

// Normalize lower-cases and trims a region name
func (name RegionName) Normalize() RegionName {
	return RegionName(strings.ToLower(strings.TrimSpace(string(name))))
}

var regionNamePattern = regexp.MustCompile(`^[a-z]{2,8}$`)

// IsValid - whether the normalized region is a single host label
func (name RegionName) IsValid() bool {
	return regionNamePattern.MatchString(string(name.Normalize()))
}

func (name RegionName) orDefault() RegionName {
	if !name.IsValid() {
		return DefaultRegionName
	}

	return name.Normalize()
}

// ProfileNamespace - the profile namespace for the region
func (name RegionName) ProfileNamespace() string {
	return fmt.Sprintf("profile-%s", name.Normalize())
}

// RealmSlug - realm identifier used in urls
type RealmSlug string

// ClientOptions - options for creating a profile api client
type ClientOptions struct {
	BaseURLTemplate string
	Timeout         time.Duration
}

// NewClient - generates a client used for querying the blizz profile api
func NewClient(opts ClientOptions) (Client, error) {
	if opts.BaseURLTemplate == "" {
		return Client{}, errors.New("base url template cannot be blank")
	}

	probe := strings.Replace(opts.BaseURLTemplate, RegionPlaceholder, string(DefaultRegionName), 1)
	u, err := url.Parse(probe)
	if err != nil {
		return Client{}, err
	}
	if u.Scheme == "" || u.Host == "" {
		return Client{}, fmt.Errorf("base url template %q is not an absolute url", opts.BaseURLTemplate)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return Client{baseURLTemplate: strings.TrimRight(opts.BaseURLTemplate, "/"), timeout: timeout}, nil
}

// Client - used for querying blizz profile api on behalf of a user
type Client struct {
	baseURLTemplate string
	timeout         time.Duration
}

// BaseURL - the base url with the region substituted, invalid regions resolve to the default region
func (c Client) BaseURL(region RegionName) string {
	return strings.Replace(c.baseURLTemplate, RegionPlaceholder, string(region.orDefault()), 1)
}

func (c Client) profileQuery(region RegionName) string {
	return fmt.Sprintf(
		"namespace=%s&locale=%s",
		url.QueryEscape(region.orDefault().ProfileNamespace()),
		url.QueryEscape(DefaultLocale),
	)
}
