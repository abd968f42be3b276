package integration_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Session boundary", func() {

	It("Token readback answers 401 for an anonymous caller", func() {
		resp, body := get(gatewayUrl("/api/auth/token"))

		Expect(resp.StatusCode).To(Equal(401))
		Expect(body).To(MatchJSON(`{"token": null}`))
	})

	It("Token readback treats the literal 'undefined' cookie as absent", func() {
		resp, body := get(gatewayUrl("/api/auth/token"), sessionCookie("undefined"))

		Expect(resp.StatusCode).To(Equal(401))
		Expect(body).To(MatchJSON(`{"token": null}`))
	})

	It("Token readback echoes the cookie token for an authenticated caller", func() {
		resp, body := get(gatewayUrl("/api/auth/token"), sessionCookie(validToken))

		Expect(resp.StatusCode).To(Equal(200))
		Expect(body).To(MatchJSON(`{"token": "valid-token-1"}`))
	})

	It("Session resolves the current user from the upstream API", func() {
		resp, body := get(gatewayUrl("/api/session"), sessionCookie(validToken))

		Expect(resp.StatusCode).To(Equal(200))
		Expect(resp.Header.Get("Cache-Control")).To(Equal("no-store, max-age=0"))
		Expect(body).To(ContainSubstring(`"username":"badimo_fan"`))
	})

	It("Session is null for an anonymous caller without touching the upstream", func() {
		before := upstreamStub.Calls("GET", "/users/current")

		resp, body := get(gatewayUrl("/api/session"))

		Expect(resp.StatusCode).To(Equal(200))
		Expect(body).To(MatchJSON(`{"user": null}`))
		Expect(upstreamStub.Calls("GET", "/users/current")).To(Equal(before))
	})

	It("Logout invalidates upstream once and stays idempotent", func() {
		before := upstreamStub.Calls("POST", "/oauth/token/invalidate")

		first, firstBody := perform("POST", gatewayUrl("/api/auth/logout"), "", sessionCookie(validToken))
		second, secondBody := perform("POST", gatewayUrl("/api/auth/logout"), "")

		Expect(first.StatusCode).To(Equal(200))
		Expect(firstBody).To(MatchJSON(`{"ok": true}`))
		Expect(second.StatusCode).To(Equal(200))
		Expect(secondBody).To(MatchJSON(`{"ok": true}`))

		firstCleared := findCookie(first, "token")
		Expect(firstCleared).NotTo(BeNil())
		Expect(firstCleared.Value).To(Equal(""))

		secondCleared := findCookie(second, "token")
		Expect(secondCleared).NotTo(BeNil())
		Expect(secondCleared.Value).To(Equal(""))

		Expect(upstreamStub.Calls("POST", "/oauth/token/invalidate")).To(Equal(before + 1))
	})
})
