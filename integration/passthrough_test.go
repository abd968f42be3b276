package integration_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pass-through routes", func() {

	It("Favorite removal forwards the cookie identity, not the body identity", func() {
		resp, body := perform("DELETE", gatewayUrl("/api/favorites/remove"),
			`{"item_id": "i-1", "owner": "spoofed-owner"}`,
			sessionCookie(validToken))

		// The stub rejects any body whose owner is not the cookie token.
		Expect(resp.StatusCode).To(Equal(200))
		Expect(body).To(MatchJSON(`{"removed": true}`))
	})

	It("Favorite removal without item_id fails before any upstream call", func() {
		before := upstreamStub.Calls("DELETE", "/favorites")

		resp, body := perform("DELETE", gatewayUrl("/api/favorites/remove"),
			`{"owner": "spoofed-owner"}`,
			sessionCookie(validToken))

		Expect(resp.StatusCode).To(Equal(400))
		Expect(body).To(MatchJSON(`{"message": "Unauthorized or missing item_id"}`))
		Expect(upstreamStub.Calls("DELETE", "/favorites")).To(Equal(before))
	})

	It("Favorite removal without a session fails before any upstream call", func() {
		before := upstreamStub.Calls("DELETE", "/favorites")

		resp, _ := perform("DELETE", gatewayUrl("/api/favorites/remove"), `{"item_id": "i-1"}`)

		Expect(resp.StatusCode).To(Equal(400))
		Expect(upstreamStub.Calls("DELETE", "/favorites")).To(Equal(before))
	})

	It("Recent trades clamps a negative limit to the default", func() {
		// The stub only answers limit=12, any other forwarded limit is a 400.
		resp, body := get(gatewayUrl("/api/trades/recent?limit=-3"))

		Expect(resp.StatusCode).To(Equal(200))
		Expect(body).To(MatchJSON(`{"trades": []}`))
	})

	It("Email notification status degrades to disabled when the upstream fails", func() {
		resp, body := get(gatewayUrl("/api/notifications/emails/status"), sessionCookie(validToken))

		Expect(resp.StatusCode).To(Equal(200))
		Expect(body).To(MatchJSON(`{"enabled": false}`))
	})

	It("Version reshapes the upstream build info", func() {
		resp, body := get(gatewayUrl("/api/version"))

		Expect(resp.StatusCode).To(Equal(200))
		Expect(body).To(ContainSubstring(`"version":"1.2.3"`))
	})
})
