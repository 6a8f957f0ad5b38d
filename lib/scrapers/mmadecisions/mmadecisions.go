// Package mmadecisions extracts judge scorecards from
// mmadecisions.com, which organizes decisions by year, then event,
// then bout.
package mmadecisions

import (
	"errors"
	"net/http/cookiejar"
	"time"

	"fightsync-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	BaseURL             = "http://mmadecisions.com/"
	DecisionsByEventURL = BaseURL + "decisions-by-event/"
)

var ErrNoScorecards = errors.New("mmadecisions: page has no scorecard tables")

// NewClient builds a client the site will talk to. The site sits
// behind Cloudflare and rejects clients that drop cookies between
// requests, so the transport gets the bypass headers and a jar.
func NewClient() *resty.Client {
	client := resty.New()
	client.SetTimeout(time.Second * 15)

	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	telemetry.InstrumentResty(client, "fightsync.lib.scrapers.mmadecisions")
	return client
}
