package pipeline_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/spool/pkg/history"
	"github.com/papercomputeco/spool/pkg/pipeline"
)

func writeLog(dir, name, content string) string {
	path := filepath.Join(dir, name)
	ExpectWithOffset(1, os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Pipeline", func() {
	var (
		ctx    context.Context
		tmpDir string
		out    string
	)

	BeforeEach(func() {
		ctx = context.Background()
		tmpDir = GinkgoT().TempDir()
		out = filepath.Join(tmpDir, "extracted")
	})

	It("extracts one heredoc and one structured file end to end", func() {
		log := `{
			"metadata": {"chatId": "c9", "actionKey": "codegen"},
			"request_head": "cat > main.py << 'EOF'\nprint('hi')\nEOF\n",
			"response_head": "#### filePath\n` + "```" + `\nout.py\n` + "```" + `\n#### fileContents\n` + "```" + `\nx = 1\n` + "```" + `\n"
		}`
		path := writeLog(tmpDir, "log.json", log)

		p := pipeline.New(pipeline.Options{OutputRoot: out})
		outcome, err := p.Process(ctx, path)
		Expect(err).NotTo(HaveOccurred())

		Expect(outcome.ChatID).To(Equal("c9"))
		Expect(outcome.ActionKey).To(Equal("codegen"))
		Expect(outcome.TotalFiles()).To(Equal(2))

		runDir := filepath.Join(out, "codegen_c9")
		Expect(outcome.OutputDir).To(Equal(runDir))

		data, err := os.ReadFile(filepath.Join(runDir, "request", "main.py"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("print('hi')"))

		data, err = os.ReadFile(filepath.Join(runDir, "response", "out.py"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("x = 1\n"))

		reportData, err := os.ReadFile(filepath.Join(runDir, "REPORT.md"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(reportData)).To(Equal(outcome.Report))
		Expect(outcome.Report).To(ContainSubstring("Total files extracted from request: 1"))
		Expect(outcome.Report).To(ContainSubstring("Total files generated in response: 1"))
		Expect(outcome.Report).NotTo(ContainSubstring("WARNING"))
	})

	It("carries located tree metadata into the report", func() {
		log := `{
			"metadata": {"chatId": "c1", "actionKey": "blueprint"},
			"request_head": "<FILE_TREE>\nsrc/\n  a.py\n</FILE_TREE>\ncat > a.py << 'EOF'\nA\nEOF\n",
			"response_head": ""
		}`
		path := writeLog(tmpDir, "log.json", log)

		outcome, err := pipeline.New(pipeline.Options{OutputRoot: out}).Process(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome.TreeMetadata).To(Equal("src/\n  a.py"))
		Expect(outcome.Report).To(ContainSubstring("## SERIALIZED FILE TREE"))
	})

	It("normalizes JSON envelopes before extraction", func() {
		log := `{
			"metadata": {},
			"request_head": "{\"messages\": [{\"role\": \"user\", \"content\": \"cat > req.txt << 'EOF'\\nbody\\nEOF\\n\"}]}",
			"response_head": "{\"choices\": [{\"message\": {\"content\": \"cat > resp.txt << 'EOF'\\nout\\nEOF\\n\"}}]}"
		}`
		path := writeLog(tmpDir, "log.json", log)

		outcome, err := pipeline.New(pipeline.Options{OutputRoot: out}).Process(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome.RequestFiles).To(HaveKey("req.txt"))
		Expect(outcome.ResponseFiles).To(HaveKey("resp.txt"))
		Expect(outcome.OutputDir).To(Equal(filepath.Join(out, "unknown_unknown")))
	})

	It("produces an empty outcome for a record with no embedded files", func() {
		log := `{"metadata": {}, "request_head": "nothing", "response_head": "here"}`
		path := writeLog(tmpDir, "log.json", log)

		outcome, err := pipeline.New(pipeline.Options{OutputRoot: out}).Process(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome.TotalFiles()).To(BeZero())
		Expect(outcome.Report).To(ContainSubstring("No files found in request"))
		Expect(outcome.Report).To(ContainSubstring("No files found in response"))

		// The report is still written even when nothing was extracted.
		Expect(filepath.Join(outcome.OutputDir, "REPORT.md")).To(BeARegularFile())
	})

	It("fails on an unreadable log file", func() {
		_, err := pipeline.New(pipeline.Options{OutputRoot: out}).Process(ctx, filepath.Join(tmpDir, "missing.json"))
		Expect(err).To(HaveOccurred())
	})

	It("records the run in history when a store is attached", func() {
		store, err := history.Open(ctx, filepath.Join(tmpDir, "history.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		log := `{
			"metadata": {"chatId": "h1", "actionKey": "act"},
			"request_head": "cat > a.py << 'EOF'\nA\nEOF\n",
			"response_head": ""
		}`
		path := writeLog(tmpDir, "log.json", log)

		_, err = pipeline.New(pipeline.Options{OutputRoot: out, History: store}).Process(ctx, path)
		Expect(err).NotTo(HaveOccurred())

		runs, err := store.Recent(ctx, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].ChatID).To(Equal("h1"))
		Expect(runs[0].RequestFiles).To(Equal(1))
		Expect(runs[0].ResponseFiles).To(BeZero())
	})
})
