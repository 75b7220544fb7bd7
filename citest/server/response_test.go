package server_test

import (
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTTP Response Behavior", func() {
	Describe("Success Responses", func() {
		It("should return 200 with JSON body for GET", func() {
			resp, err := client.Get(ctx, "/command")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))
			Expect(resp.Headers.Get("Content-Type")).To(ContainSubstring("application/json"))
		})

		It("should return JSON array for list endpoints", func() {
			resp, err := client.Get(ctx, "/command")
			Expect(err).NotTo(HaveOccurred())

			var commands []map[string]interface{}
			err = json.Unmarshal(resp.Body, &commands)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should omit empty optional fields from command records", func() {
			resp, err := client.Get(ctx, "/command/bmad-help")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.IsSuccess()).To(BeTrue())

			var record map[string]interface{}
			Expect(json.Unmarshal(resp.Body, &record)).To(Succeed())
			Expect(record).To(HaveKey("name"))
			Expect(record).To(HaveKey("syntax"))
			Expect(record).NotTo(HaveKey("source"))
			Expect(record).NotTo(HaveKey("agentName"))
			Expect(record).NotTo(HaveKey("linkedPath"))
		})
	})

	Describe("Error Responses", func() {
		It("should return 404 for unknown resource", func() {
			resp, err := client.Get(ctx, "/command/bmad-does-not-exist")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(404))
		})

		It("should return structured error for 404", func() {
			resp, err := client.Get(ctx, "/command/bmad-does-not-exist")
			Expect(err).NotTo(HaveOccurred())

			var errResp struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			err = json.Unmarshal(resp.Body, &errResp)
			Expect(err).NotTo(HaveOccurred())
			Expect(errResp.Error.Code).To(Equal("NOT_FOUND"))
			Expect(errResp.Error.Message).NotTo(BeEmpty())
		})

		It("should return structured error for 400", func() {
			resp, err := client.Get(ctx, "/manifest/bogus")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(400))

			var errResp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			err = json.Unmarshal(resp.Body, &errResp)
			Expect(err).NotTo(HaveOccurred())
			Expect(errResp.Error.Code).To(Equal("INVALID_REQUEST"))
		})

		It("should accept an empty scan body", func() {
			req, err := http.NewRequest("POST", testServer.BaseURL+"/registry/scan", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")

			httpClient := &http.Client{}
			resp, err := httpClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(200))
		})
	})

	Describe("CORS Headers", func() {
		It("should respond to OPTIONS request", func() {
			req, err := http.NewRequest("OPTIONS", testServer.BaseURL+"/command", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Origin", "http://example.com")
			req.Header.Set("Access-Control-Request-Method", "GET")

			httpClient := &http.Client{}
			resp, err := httpClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(200))
		})

		It("should include CORS headers in response", func() {
			req, err := http.NewRequest("GET", testServer.BaseURL+"/command", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Origin", "http://example.com")

			httpClient := &http.Client{}
			resp, err := httpClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.Header.Get("Access-Control-Allow-Origin")).NotTo(BeEmpty())
		})

		It("should allow required methods", func() {
			req, err := http.NewRequest("OPTIONS", testServer.BaseURL+"/registry/scan", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Origin", "http://example.com")
			req.Header.Set("Access-Control-Request-Method", "POST")

			httpClient := &http.Client{}
			resp, err := httpClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			allowedMethods := resp.Header.Get("Access-Control-Allow-Methods")
			Expect(allowedMethods).To(SatisfyAny(
				ContainSubstring("POST"),
				ContainSubstring("*"),
			))
		})
	})

	Describe("Content-Type Handling", func() {
		It("should accept JSON content-type for scan requests", func() {
			resp, err := client.Post(ctx, "/registry/scan", map[string]string{
				"root": install.Root,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.IsSuccess()).To(BeTrue())
		})

		It("should return JSON content-type for API responses", func() {
			resp, err := client.Get(ctx, "/registry")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Headers.Get("Content-Type")).To(ContainSubstring("application/json"))
		})
	})
})
