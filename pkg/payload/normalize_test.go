package payload_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/spool/pkg/payload"
)

var _ = Describe("Normalize", func() {
	It("returns plain text unchanged on either side", func() {
		raw := "plain, not json"
		Expect(payload.Normalize(raw, payload.Request)).To(Equal(raw))
		Expect(payload.Normalize(raw, payload.Response)).To(Equal(raw))
	})

	It("unwraps a JSON-encoded string", func() {
		Expect(payload.Normalize(`"hello world"`, payload.Request)).To(Equal("hello world"))
		Expect(payload.Normalize(`"hello world"`, payload.Response)).To(Equal("hello world"))
	})

	It("returns non-object, non-string JSON unchanged", func() {
		Expect(payload.Normalize(`[1, 2, 3]`, payload.Request)).To(Equal(`[1, 2, 3]`))
		Expect(payload.Normalize(`42`, payload.Response)).To(Equal(`42`))
	})

	Describe("request side", func() {
		It("joins message contents with a blank line", func() {
			raw := `{"messages": [
				{"role": "system", "content": "first"},
				{"role": "user", "content": "second"}
			]}`
			Expect(payload.Normalize(raw, payload.Request)).To(Equal("first\n\nsecond"))
		})

		It("skips messages without a string content", func() {
			raw := `{"messages": [
				{"role": "user", "content": "kept"},
				{"role": "assistant", "tool_calls": []},
				{"role": "user", "content": ["multimodal", "parts"]}
			]}`
			Expect(payload.Normalize(raw, payload.Request)).To(Equal("kept"))
		})

		It("returns the raw text when no messages key exists", func() {
			raw := `{"model": "gpt-4"}`
			Expect(payload.Normalize(raw, payload.Request)).To(Equal(raw))
		})

		It("ignores response envelopes on the request side", func() {
			raw := `{"choices": [{"message": {"content": "resp"}}]}`
			Expect(payload.Normalize(raw, payload.Request)).To(Equal(raw))
		})
	})

	Describe("response side", func() {
		It("extracts delta content from a streaming chunk", func() {
			raw := `{"choices": [{"delta": {"content": "chunk text"}}]}`
			Expect(payload.Normalize(raw, payload.Response)).To(Equal("chunk text"))
		})

		It("extracts message content from a non-streaming response", func() {
			raw := `{"choices": [{"message": {"content": "full text"}}]}`
			Expect(payload.Normalize(raw, payload.Response)).To(Equal("full text"))
		})

		It("prefers delta over message content", func() {
			raw := `{"choices": [{"delta": {"content": "d"}, "message": {"content": "m"}}]}`
			Expect(payload.Normalize(raw, payload.Response)).To(Equal("d"))
		})

		It("returns the raw text for empty choices", func() {
			raw := `{"choices": []}`
			Expect(payload.Normalize(raw, payload.Response)).To(Equal(raw))
		})

		It("returns the raw text when choices are missing", func() {
			raw := `{"model": "gpt-4"}`
			Expect(payload.Normalize(raw, payload.Response)).To(Equal(raw))
		})

		It("reassembles an SSE stream of delta chunks", func() {
			raw := "data: {\"choices\":[{\"delta\":{\"content\":\"Hello \"}}]}\n\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"world\"}}]}\n\n" +
				"data: [DONE]\n\n"
			Expect(payload.Normalize(raw, payload.Response)).To(Equal("Hello world"))
		})

		It("skips undecodable SSE events", func() {
			raw := "data: not json\n\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n"
			Expect(payload.Normalize(raw, payload.Response)).To(Equal("ok"))
		})

		It("falls back to raw text when a stream yields nothing", func() {
			raw := "data: [DONE]\n\n"
			Expect(payload.Normalize(raw, payload.Response)).To(Equal(raw))
		})
	})

	Describe("Side", func() {
		It("names sides after output subdirectories", func() {
			Expect(payload.Request.String()).To(Equal("request"))
			Expect(payload.Response.String()).To(Equal("response"))
		})
	})
})
