package integration_test

import (
	"net/url"

	"github.com/jbchangelogs/gateway/pkg/serializers"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Redirect routes", func() {

	It("Discord login redirects to the upstream oauth endpoint with a signed state", func() {
		resp, _ := get(gatewayUrl("/api/auth/discord?redirect=/trading"))

		Expect(resp.StatusCode).To(Equal(302))
		location := resp.Header.Get("Location")
		Expect(location).To(HavePrefix("https://api.example.test/oauth?redirect=%2Ftrading"))
		Expect(location).To(ContainSubstring("&state="))
	})

	It("Auth callback sets the session cookie and follows the signed target", func() {
		state, err := serializers.NewRedirectStateSerializer(oauthStateSecret).Serialize("/trading")
		Expect(err).NotTo(HaveOccurred())

		resp, _ := get(gatewayUrl("/api/auth/callback?token=fresh-token&state=" + url.QueryEscape(state)))

		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/trading"))

		cookie := findCookie(resp, "token")
		Expect(cookie).NotTo(BeNil())
		Expect(cookie.Value).To(Equal("fresh-token"))
	})

	It("Auth callback with a tampered state falls back to the root target", func() {
		state, err := serializers.NewRedirectStateSerializer("some-other-secret").Serialize("/trading")
		Expect(err).NotTo(HaveOccurred())

		resp, _ := get(gatewayUrl("/api/auth/callback?token=fresh-token&state=" + url.QueryEscape(state)))

		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/"))
		Expect(findCookie(resp, "token")).NotTo(BeNil())
	})

	It("Auth callback without a token never sets a cookie", func() {
		resp, _ := get(gatewayUrl("/api/auth/callback?token=undefined"))

		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/"))
		Expect(findCookie(resp, "token")).To(BeNil())
	})

	It("Latest changelog redirects to the newest entry", func() {
		resp, _ := get(gatewayUrl("/api/changelogs/latest"))

		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/changelogs/357"))
	})

	It("Latest season falls back to the index when the upstream has no answer", func() {
		// No /seasons/latest mock registered, the stub answers 404.
		resp, _ := get(gatewayUrl("/api/seasons/latest"))

		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/seasons"))
	})
})
