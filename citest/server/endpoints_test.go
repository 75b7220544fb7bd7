package server_test

import (
	"fmt"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bmad-ai/bmadhub/citest/testutil"
)

var _ = Describe("Server Endpoints Integration Tests", func() {

	// ==================== Registry Endpoints ====================
	Describe("Registry Endpoints", func() {
		Describe("GET /registry", func() {
			It("should return the current snapshot summary", func() {
				info, err := client.GetRegistry(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(info.ID).NotTo(BeEmpty())
				Expect(info.Root).To(Equal(install.Root))
				Expect(info.BmadDir).To(Equal(install.BmadDir))
				Expect(info.Commands).To(Equal(5))
				Expect(info.Links).To(Equal(3))
				Expect(info.Issues).To(Equal(0))
			})
		})

		Describe("POST /registry/scan", func() {
			It("should rescan and publish a fresh snapshot", func() {
				before, err := client.GetRegistry(ctx)
				Expect(err).NotTo(HaveOccurred())

				result, err := client.TriggerScan(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Scanned).To(BeTrue())
				Expect(result.Snapshot).NotTo(BeNil())
				Expect(result.Snapshot.Commands).To(Equal(5))
				Expect(result.Snapshot.ID).NotTo(Equal(before.ID))

				// The published snapshot is the one the scan returned
				after, err := client.GetRegistry(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(after.ID).To(Equal(result.Snapshot.ID))
			})

			It("should scan an explicit root", func() {
				result, err := client.TriggerScanAt(ctx, install.Root, "")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Scanned).To(BeTrue())
				Expect(result.Snapshot.Commands).To(Equal(5))
			})

			It("should report scanned false for a root without an installation", func() {
				tempDir, err := testutil.NewTempDir()
				Expect(err).NotTo(HaveOccurred())
				defer tempDir.Cleanup()

				result, err := client.TriggerScanAt(ctx, tempDir.Path, "")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Scanned).To(BeFalse())
				Expect(result.Snapshot).To(BeNil())
			})

			It("should fall back to the configured root on a malformed body", func() {
				resp, err := client.Post(ctx, "/registry/scan", "not a scan request")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.IsSuccess()).To(BeTrue())

				var result testutil.ScanResult
				Expect(resp.JSON(&result)).To(Succeed())
				Expect(result.Scanned).To(BeTrue())
			})
		})

		Describe("GET /registry/modules", func() {
			It("should list installed module directories", func() {
				modules, err := client.GetModules(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(modules).To(Equal([]string{"bmm", "core"}))
			})
		})

		Describe("GET /registry/links", func() {
			It("should list discovered prompt and chatmode files", func() {
				links, err := client.GetLinks(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(links).To(HaveLen(3))

				byPath := make(map[string]testutil.Link)
				for _, l := range links {
					byPath[l.Path] = l
				}

				prompt := byPath[filepath.Join(".github", "prompts", "bmad-bmm-create-prd.prompt.md")]
				Expect(prompt.Kind).To(Equal("prompt"))
				Expect(prompt.Command).To(Equal("bmad-bmm-create-prd"))

				chatmode := byPath[filepath.Join(".github", "chatmodes", "bmad-bmm-agents-pm.chatmode.md")]
				Expect(chatmode.Kind).To(Equal("chatmode"))
				Expect(chatmode.Command).To(Equal("bmad-agent-bmm-pm"))

				orphan := byPath[filepath.Join(".github", "prompts", "bmad-nonexistent.prompt.md")]
				Expect(orphan.Kind).To(Equal("prompt"))
				Expect(orphan.Command).To(BeEmpty())
			})
		})

		Describe("GET /registry/issues", func() {
			It("should report no issues for a clean installation", func() {
				issues, err := client.GetIssues(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(issues).To(BeEmpty())
			})
		})

		Describe("GET /registry/history", func() {
			It("should list past scans newest first", func() {
				result, err := client.TriggerScan(ctx)
				Expect(err).NotTo(HaveOccurred())

				history, err := client.GetHistory(ctx, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(len(history)).To(BeNumerically(">=", 2))
				Expect(history[0].ID).To(Equal(result.Snapshot.ID))
			})

			It("should respect the limit parameter", func() {
				history, err := client.GetHistory(ctx, 1)
				Expect(err).NotTo(HaveOccurred())
				Expect(history).To(HaveLen(1))
			})
		})
	})

	// ==================== Command Endpoints ====================
	Describe("Command Endpoints", func() {
		Describe("GET /command", func() {
			It("should list all registered commands", func() {
				commands, err := client.ListCommands(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(commands).To(HaveLen(5))

				var names []string
				for _, c := range commands {
					names = append(names, c.Name)
				}
				Expect(names).To(ContainElements(
					"bmad-bmm-create-prd",
					"bmad-bmm-daily-standup",
					"bmad-help",
					"bmad-agent-bmm-pm",
					"bmad-brainstorm",
				))
			})

			It("should filter by category", func() {
				commands, err := client.ListCommands(ctx, testutil.WithQuery(map[string]string{
					"category": "agent",
				}))
				Expect(err).NotTo(HaveOccurred())
				Expect(commands).To(HaveLen(1))
				Expect(commands[0].Name).To(Equal("bmad-agent-bmm-pm"))
			})

			It("should filter by module", func() {
				commands, err := client.ListCommands(ctx, testutil.WithQuery(map[string]string{
					"module": "bmm",
				}))
				Expect(err).NotTo(HaveOccurred())
				Expect(commands).To(HaveLen(3))
			})

			It("should return an empty list for an unknown category", func() {
				commands, err := client.ListCommands(ctx, testutil.WithQuery(map[string]string{
					"category": "nope",
				}))
				Expect(err).NotTo(HaveOccurred())
				Expect(commands).To(BeEmpty())
			})
		})

		Describe("GET /command/{name}", func() {
			It("should resolve a workflow command", func() {
				cmd, err := client.GetCommand(ctx, "bmad-bmm-create-prd")
				Expect(err).NotTo(HaveOccurred())
				Expect(cmd.Syntax).To(Equal("bmad:bmm:create-prd"))
				Expect(cmd.Category).To(Equal("workflow"))
				Expect(cmd.Module).To(Equal("bmm"))
				Expect(cmd.Pattern).To(Equal("workflow-engine"))
				Expect(cmd.LinkedPath).To(Equal(filepath.Join(".github", "prompts", "bmad-bmm-create-prd.prompt.md")))
			})

			It("should resolve a synthesized agent command", func() {
				cmd, err := client.GetCommand(ctx, "bmad-agent-bmm-pm")
				Expect(err).NotTo(HaveOccurred())
				Expect(cmd.Syntax).To(Equal("bmad:agent:bmm:pm"))
				Expect(cmd.Category).To(Equal("agent"))
				Expect(cmd.AgentName).To(Equal("pm"))
				Expect(cmd.AgentTitle).To(Equal("Product Manager"))
				Expect(cmd.Pattern).To(Equal("agent-activation"))
				Expect(cmd.LinkedPath).To(Equal(filepath.Join(".github", "chatmodes", "bmad-bmm-agents-pm.chatmode.md")))
			})

			It("should resolve a standalone task", func() {
				cmd, err := client.GetCommand(ctx, "bmad-brainstorm")
				Expect(err).NotTo(HaveOccurred())
				Expect(cmd.Category).To(Equal("task"))
				Expect(cmd.Module).To(Equal("core"))
				Expect(cmd.Pattern).To(Equal("structured"))
			})

			It("should honor the explicit cli-syntax column", func() {
				cmd, err := client.GetCommand(ctx, "bmad-help")
				Expect(err).NotTo(HaveOccurred())
				Expect(cmd.Syntax).To(Equal("bmad:help"))
				Expect(cmd.Category).To(Equal("core"))
				Expect(cmd.Module).To(Equal("core"))
			})

			It("should not register non-standalone tasks", func() {
				resp, err := client.Get(ctx, "/command/bmad-checklist")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(404))
			})

			It("should return 404 with suggestions for a near miss", func() {
				resp, err := client.Get(ctx, "/command/bmad-bmm-create-prt")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(404))

				var apiErr testutil.APIError
				Expect(resp.JSON(&apiErr)).To(Succeed())
				Expect(apiErr.Error.Code).To(Equal("NOT_FOUND"))

				suggestions, ok := apiErr.Error.Details["suggestions"].([]interface{})
				Expect(ok).To(BeTrue())
				Expect(suggestions).To(ContainElement("bmad-bmm-create-prd"))
			})
		})
	})

	// ==================== Source Endpoints ====================
	Describe("GET /command/{name}/source", func() {
		It("should inspect a YAML workflow source", func() {
			meta, err := client.GetCommandSource(ctx, "bmad-bmm-create-prd")
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.Format).To(Equal("yaml"))
			Expect(meta.Name).To(Equal("create-prd"))
			Expect(meta.Description).To(Equal("Create a product requirements document"))
			Expect(meta.Author).To(Equal("BMad"))
		})

		It("should inspect a markdown source", func() {
			meta, err := client.GetCommandSource(ctx, "bmad-bmm-daily-standup")
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.Format).To(Equal("markdown"))
			Expect(meta.Heading).To(Equal("Daily Standup"))
			Expect(meta.Excerpt).To(ContainSubstring("standup ritual"))
		})

		It("should inspect an XML task source", func() {
			meta, err := client.GetCommandSource(ctx, "bmad-brainstorm")
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.Format).To(Equal("xml"))
			Expect(meta.Element).To(Equal("task"))
			Expect(meta.Attributes).To(HaveKeyWithValue("id", "brainstorm"))
		})

		It("should return 404 when the command has no source", func() {
			resp, err := client.Get(ctx, "/command/bmad-help/source")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(404))
		})

		It("should return 404 for an unknown command", func() {
			resp, err := client.Get(ctx, "/command/bmad-unknown/source")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(404))
		})
	})

	// ==================== Search Endpoints ====================
	Describe("GET /search", func() {
		It("should match on name substrings", func() {
			result, err := client.SearchCommands(ctx, "prd", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Query).To(Equal("prd"))
			Expect(result.Count).To(Equal(1))
			Expect(result.Results[0].Name).To(Equal("bmad-bmm-create-prd"))
		})

		It("should match on description substrings", func() {
			result, err := client.SearchCommands(ctx, "brainstorming", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Count).To(Equal(1))
			Expect(result.Results[0].Name).To(Equal("bmad-brainstorm"))
		})

		It("should respect the limit parameter", func() {
			result, err := client.SearchCommands(ctx, "bmad", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Count).To(Equal(2))
			Expect(result.Results).To(HaveLen(2))
		})

		It("should return an empty result set for no matches", func() {
			result, err := client.SearchCommands(ctx, "zzz-no-such-thing", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Count).To(Equal(0))
			Expect(result.Results).To(BeEmpty())
		})

		It("should require the q parameter", func() {
			resp, err := client.Get(ctx, "/search")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(400))
		})
	})

	// ==================== Manifest Endpoints ====================
	Describe("GET /manifest/{kind}", func() {
		It("should return raw catalog rows including non-command rows", func() {
			rows, err := client.GetManifestRows(ctx, "catalog")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(4))
			Expect(rows[0]["command"]).To(Equal("bmad-bmm-create-prd"))
			Expect(rows[3]["command"]).To(BeEmpty())
		})

		It("should return agent rows", func() {
			rows, err := client.GetManifestRows(ctx, "agent")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]["name"]).To(Equal("pm"))
		})

		It("should return task rows regardless of standalone", func() {
			rows, err := client.GetManifestRows(ctx, "task")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("should return an empty row set for an absent manifest", func() {
			rows, err := client.GetManifestRows(ctx, "tool")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("should reject unknown manifest kinds", func() {
			resp, err := client.Get(ctx, "/manifest/bogus")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(400))
		})
	})
})

// Additional tests for edge cases and error handling
var _ = Describe("Server Error Handling", func() {
	Describe("Invalid Requests", func() {
		It("should return 404 for unknown paths", func() {
			resp, err := client.Get(ctx, "/unknown/endpoint")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(404))
		})

		It("should return 405 for unsupported methods", func() {
			resp, err := client.Post(ctx, "/command", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(405))
		})
	})
})

// Concurrent access tests
var _ = Describe("Concurrent Access", func() {
	It("should handle concurrent command listings", func() {
		const numReads = 10
		done := make(chan bool, numReads)
		errors := make(chan error, numReads)

		for i := 0; i < numReads; i++ {
			go func() {
				commands, err := client.ListCommands(ctx)
				if err == nil && len(commands) == 0 {
					err = fmt.Errorf("no commands returned")
				}
				if err != nil {
					errors <- err
					return
				}
				done <- true
			}()
		}

		for i := 0; i < numReads; i++ {
			select {
			case <-done:
				// OK
			case err := <-errors:
				Expect(err).NotTo(HaveOccurred())
			case <-time.After(30 * time.Second):
				Fail("Timeout waiting for concurrent command listings")
			}
		}
	})

	It("should handle scans racing with reads", func() {
		const numOps = 6
		done := make(chan bool, numOps)
		errors := make(chan error, numOps)

		for i := 0; i < numOps; i++ {
			scan := i%2 == 0
			go func(scan bool) {
				var err error
				if scan {
					_, err = client.TriggerScan(ctx)
				} else {
					_, err = client.GetRegistry(ctx)
				}
				if err != nil {
					errors <- err
					return
				}
				done <- true
			}(scan)
		}

		for i := 0; i < numOps; i++ {
			select {
			case <-done:
				// OK
			case err := <-errors:
				Expect(err).NotTo(HaveOccurred())
			case <-time.After(30 * time.Second):
				Fail("Timeout waiting for concurrent scans")
			}
		}

		// The registry settles on a complete snapshot
		info, err := client.GetRegistry(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Commands).To(Equal(5))
	})
})
