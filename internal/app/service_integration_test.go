package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/creatorscore/internal/adapters/providers"
	service "github.com/okian/creatorscore/internal/app"
	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/okian/creatorscore/internal/domain/ratio"
	. "github.com/smartystreets/goconvey/convey"
)

const integrationWallet = "0x1234567890abcdef1234567890abcdef12345678"

// upstream fakes Talent, Zora and Neynar behind one server.
func upstream() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/talent/score", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "6730" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"score":{"points":155,"slug":"creator_score"}}`))
	})
	mux.HandleFunc("/talent/credentials", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"credentials":[]}`))
	})
	mux.HandleFunc("/zora/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("identifier") != integrationWallet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"profile":{"creatorCoin":{"address":"0xcoin","marketCap":"2500000"}}}`))
	})
	mux.HandleFunc("/neynar/user/bulk/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fids") != "6730" {
			_, _ = w.Write([]byte(`{"users":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"users":[{"custody_address":"` + integrationWallet + `"}]}`))
	})
	return httptest.NewServer(mux)
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service wired to fake upstreams", t, func() {
		srv := upstream()
		defer srv.Close()

		opts := []providers.ClientOption{providers.WithRetries(0, time.Millisecond), providers.WithTimeout(time.Second)}
		talent := providers.NewTalentClient(
			providers.NewClient("talent", srv.URL+"/talent", providers.TalentAPIKeyHeader, "k", opts...),
			[]string{"zora", "talent"},
		)
		neynar := providers.NewNeynarClient(
			providers.NewClient("neynar", srv.URL+"/neynar", providers.NeynarAPIKeyHeader, "k", opts...),
		)
		zora := providers.NewZoraClient(
			providers.NewClient("zora", srv.URL+"/zora", providers.ZoraAPIKeyHeader, "k", opts...),
			neynar,
		)

		svc := service.New(
			service.WithScoreProvider(providers.ScoreChain{talent, providers.NewMockProvider(0)}),
			service.WithValuationProvider(providers.ValuationChain{talent, zora, providers.NewMockProvider(0)}),
			service.WithCredentialScanner(talent),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When analyzing a FID", func() {
			report, err := svc.Analyze(ctx, model.FIDIdentifier(6730))

			Convey("Then score comes from Talent and market cap from Zora through Neynar", func() {
				So(err, ShouldBeNil)
				So(report.Score.Source, ShouldEqual, model.SourceTalent)
				So(report.Valuation.Source, ShouldEqual, model.SourceZora)
				So(report.Valuation.CoinAddress, ShouldEqual, "0xcoin")
				So(report.Analysis.Category, ShouldEqual, ratio.Overvalued)
			})
		})

		Convey("When analyzing a FID only the mock knows", func() {
			report, err := svc.Analyze(ctx, model.FIDIdentifier(2))

			Convey("Then the mock fills both halves", func() {
				So(err, ShouldBeNil)
				So(report.Score.Source, ShouldEqual, model.SourceMock)
				So(report.Valuation.Source, ShouldEqual, model.SourceMock)
				So(report.Analysis.Category, ShouldEqual, ratio.Balanced)
			})
		})

		Convey("When scanning credentials", func() {
			scan, err := svc.Credentials(ctx, model.FIDIdentifier(6730))

			Convey("Then every slug should be tried", func() {
				So(err, ShouldBeNil)
				So(scan.Found, ShouldBeFalse)
				So(scan.Tried, ShouldResemble, []string{"zora", "talent"})
			})
		})
	})
}
