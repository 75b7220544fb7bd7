package server_test

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SSE Event Streaming", func() {
	Describe("GET /event", func() {
		It("should return SSE content-type header", func() {
			req, err := http.NewRequest("GET", testServer.BaseURL+"/event", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Accept", "text/event-stream")

			httpClient := &http.Client{Timeout: 5 * time.Second}
			resp, err := httpClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/event-stream"))
		})

		It("should set cache control headers", func() {
			req, err := http.NewRequest("GET", testServer.BaseURL+"/event", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Accept", "text/event-stream")

			httpClient := &http.Client{Timeout: 5 * time.Second}
			resp, err := httpClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.Header.Get("Cache-Control")).To(Equal("no-cache"))
		})

		It("should greet new subscribers with the current snapshot", func() {
			sseClient := testServer.SSEClient()
			err := sseClient.Connect(ctx, "/event")
			Expect(err).NotTo(HaveOccurred())
			defer sseClient.Close()

			evt, err := sseClient.WaitForEvent("server.connected", 5*time.Second)
			Expect(err).NotTo(HaveOccurred())

			data, err := evt.ParseConnectedEvent()
			Expect(err).NotTo(HaveOccurred())
			Expect(data.Snapshot).NotTo(BeNil())
			Expect(data.Snapshot.Commands).To(Equal(5))
		})
	})

	Describe("Scan Events", func() {
		It("should stream scan.started and scan.completed for a triggered scan", func() {
			sseClient := testServer.SSEClient()
			err := sseClient.Connect(ctx, "/event")
			Expect(err).NotTo(HaveOccurred())
			defer sseClient.Close()

			// Drain the greeting before triggering
			_, err = sseClient.WaitForEvent("server.connected", 5*time.Second)
			Expect(err).NotTo(HaveOccurred())

			result, err := client.TriggerScan(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Scanned).To(BeTrue())

			started, err := sseClient.WaitForEvent("scan.started", 10*time.Second)
			Expect(err).NotTo(HaveOccurred())
			startedData, err := started.ParseScanStartedEvent()
			Expect(err).NotTo(HaveOccurred())
			Expect(startedData.Root).To(Equal(install.Root))

			completed, err := sseClient.WaitForEvent("scan.completed", 10*time.Second)
			Expect(err).NotTo(HaveOccurred())
			completedData, err := completed.ParseScanCompletedEvent()
			Expect(err).NotTo(HaveOccurred())
			Expect(completedData.Snapshot.ID).To(Equal(result.Snapshot.ID))
			Expect(completedData.Snapshot.Commands).To(Equal(5))
		})
	})

	Describe("Watcher Events", func() {
		It("should rescan when a manifest changes on disk", func() {
			sseClient := testServer.SSEClient()
			err := sseClient.Connect(ctx, "/event")
			Expect(err).NotTo(HaveOccurred())
			defer sseClient.Close()

			_, err = sseClient.WaitForEvent("server.connected", 5*time.Second)
			Expect(err).NotTo(HaveOccurred())

			// Add a workflow row; the watcher should pick it up
			extended := catalogManifest +
				"bmm,retro,Retrospective,bmad-bmm-retro,,Run the sprint retrospective,bmm/workflows/retro/retro.md,,,,,,,,true,\n"
			Expect(install.WriteManifest("command-manifest.csv", extended)).To(Succeed())

			triggered, err := sseClient.WaitForEvent("watch.triggered", 15*time.Second)
			Expect(err).NotTo(HaveOccurred())
			triggeredData, err := triggered.ParseWatchTriggeredEvent()
			Expect(err).NotTo(HaveOccurred())
			Expect(triggeredData.Paths).NotTo(BeEmpty())

			completed, err := sseClient.WaitForEvent("scan.completed", 15*time.Second)
			Expect(err).NotTo(HaveOccurred())
			completedData, err := completed.ParseScanCompletedEvent()
			Expect(err).NotTo(HaveOccurred())
			Expect(completedData.Snapshot.Commands).To(Equal(6))

			cmd, err := client.GetCommand(ctx, "bmad-bmm-retro")
			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.Syntax).To(Equal("bmad:bmm:retro"))

			// Restore the original manifest and wait for the follow-up
			// rescan so later specs see the baseline snapshot
			Expect(install.WriteManifest("command-manifest.csv", catalogManifest)).To(Succeed())

			_, err = sseClient.WaitForEvent("scan.completed", 15*time.Second)
			Expect(err).NotTo(HaveOccurred())

			resp, err := client.Get(ctx, "/command/bmad-bmm-retro")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(404))
		})
	})

	Describe("SSE Connection Lifecycle", func() {
		It("should handle client disconnect gracefully", func() {
			sseClient := testServer.SSEClient()
			err := sseClient.Connect(ctx, "/event")
			Expect(err).NotTo(HaveOccurred())

			// Close connection
			sseClient.Close()

			// Server should still be running
			_, err = client.GetRegistry(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should stop sending after context cancel", func() {
			cancelCtx, cancel := context.WithCancel(ctx)

			sseClient := testServer.SSEClient()
			err := sseClient.Connect(cancelCtx, "/event")
			Expect(err).NotTo(HaveOccurred())

			// Cancel context
			cancel()

			// Give time for cancellation to propagate
			time.Sleep(500 * time.Millisecond)

			// Connection should be closed
			sseClient.Close()

			// Server should still be running
			_, err = client.GetRegistry(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should serve multiple subscribers at once", func() {
			first := testServer.SSEClient()
			Expect(first.Connect(ctx, "/event")).To(Succeed())
			defer first.Close()

			second := testServer.SSEClient()
			Expect(second.Connect(ctx, "/event")).To(Succeed())
			defer second.Close()

			_, err := first.WaitForEvent("server.connected", 5*time.Second)
			Expect(err).NotTo(HaveOccurred())
			_, err = second.WaitForEvent("server.connected", 5*time.Second)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
