package extract_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/spool/pkg/extract"
)

var _ = Describe("Heredoc", func() {
	It("recovers the enclosed content byte-for-byte", func() {
		text := "some preamble\ncat > src/main.py << 'EOF'\nprint('hi')\n\nprint('bye')\nEOF\ntrailing"
		files := extract.Heredoc(text)
		Expect(files).To(HaveLen(1))
		Expect(files["src/main.py"]).To(Equal("print('hi')\n\nprint('bye')"))
	})

	It("finds multiple blocks in document order", func() {
		text := "cat > a.txt << 'EOF'\nA\nEOF\ncat > b.txt << 'EOF'\nB\nEOF\n"
		files := extract.Heredoc(text)
		Expect(files).To(HaveLen(2))
		Expect(files["a.txt"]).To(Equal("A"))
		Expect(files["b.txt"]).To(Equal("B"))
	})

	It("returns an empty mapping when nothing matches", func() {
		Expect(extract.Heredoc("no files here")).To(BeEmpty())
	})

	It("renames colliding paths instead of overwriting", func() {
		text := "cat > a/b.txt << 'EOF'\nfirst\nEOF\ncat > a/b.txt << 'EOF'\nsecond\nEOF\n"
		files := extract.Heredoc(text)
		Expect(files).To(HaveLen(2))
		Expect(files["a/b.txt"]).To(Equal("first"))
		Expect(files["a/b_v1.txt"]).To(Equal("second"))
	})

	It("increments the collision counter monotonically", func() {
		text := ""
		for _, c := range []string{"one", "two", "three"} {
			text += "cat > dup.py << 'EOF'\n" + c + "\nEOF\n"
		}
		files := extract.Heredoc(text)
		Expect(files).To(HaveLen(3))
		Expect(files["dup.py"]).To(Equal("one"))
		Expect(files["dup_v1.py"]).To(Equal("two"))
		Expect(files["dup_v2.py"]).To(Equal("three"))
	})

	It("suffixes extensionless paths under collision", func() {
		text := "cat > Makefile << 'EOF'\nall:\nEOF\ncat > Makefile << 'EOF'\nclean:\nEOF\n"
		files := extract.Heredoc(text)
		Expect(files["Makefile"]).To(Equal("all:"))
		Expect(files["Makefile_v1"]).To(Equal("clean:"))
	})

	It("does not close on a line that merely starts with EOF", func() {
		text := "cat > f.txt << 'EOF'\nEOF_MARKER = 1\ndone\nEOF\n"
		files := extract.Heredoc(text)
		Expect(files["f.txt"]).To(Equal("EOF_MARKER = 1\ndone"))
	})

	It("accepts a closing EOF at the very end of the text", func() {
		text := "cat > last.txt << 'EOF'\ncontent\nEOF"
		files := extract.Heredoc(text)
		Expect(files["last.txt"]).To(Equal("content"))
	})

	It("is idempotent", func() {
		text := "cat > a.txt << 'EOF'\nA\nEOF\n"
		Expect(extract.Heredoc(text)).To(Equal(extract.Heredoc(text)))
	})
})

var _ = Describe("Structured", func() {
	It("recovers the trimmed path and raw content", func() {
		text := "#### filePath\n\n```\n  src/app.ts  \n```\n\n#### fileContents\n\n```\nconst x = 1;\n```"
		files := extract.Structured(text)
		Expect(files).To(HaveLen(1))
		Expect(files["src/app.ts"]).To(Equal("const x = 1;\n"))
	})

	It("skips a leading language-tag line", func() {
		text := "#### filePath\n```\nmain.go\n```\n#### fileContents\n```go\npackage main\n```"
		files := extract.Structured(text)
		Expect(files["main.go"]).To(Equal("package main\n"))
	})

	It("finds multiple blocks", func() {
		text := "#### filePath\n```\na.py\n```\n#### fileContents\n```\nA\n```\n" +
			"#### filePath\n```\nb.py\n```\n#### fileContents\n```\nB\n```\n"
		files := extract.Structured(text)
		Expect(files).To(HaveLen(2))
		Expect(files["a.py"]).To(Equal("A\n"))
		Expect(files["b.py"]).To(Equal("B\n"))
	})

	It("renames colliding paths with its own counter", func() {
		text := "#### filePath\n```\nx.py\n```\n#### fileContents\n```\nfirst\n```\n" +
			"#### filePath\n```\nx.py\n```\n#### fileContents\n```\nsecond\n```\n"
		files := extract.Structured(text)
		Expect(files["x.py"]).To(Equal("first\n"))
		Expect(files["x_v1.py"]).To(Equal("second\n"))
	})

	It("returns an empty mapping when nothing matches", func() {
		Expect(extract.Structured("#### filePath only, no fences")).To(BeEmpty())
	})

	It("is idempotent", func() {
		text := "#### filePath\n```\na.py\n```\n#### fileContents\n```\nA\n```\n"
		Expect(extract.Structured(text)).To(Equal(extract.Structured(text)))
	})
})

var _ = Describe("All", func() {
	It("merges both formats into one mapping", func() {
		text := "cat > shell.sh << 'EOF'\necho hi\nEOF\n" +
			"#### filePath\n```\napp.py\n```\n#### fileContents\n```\nprint()\n```\n"
		files := extract.All(text)
		Expect(files).To(HaveLen(2))
		Expect(files["shell.sh"]).To(Equal("echo hi"))
		Expect(files["app.py"]).To(Equal("print()\n"))
	})

	It("lets structured blocks win on path collision", func() {
		text := "cat > same.py << 'EOF'\nheredoc body\nEOF\n" +
			"#### filePath\n```\nsame.py\n```\n#### fileContents\n```\nstructured body\n```\n"
		files := extract.All(text)
		Expect(files).To(HaveLen(1))
		Expect(files["same.py"]).To(Equal("structured body\n"))
	})
})

var _ = Describe("LocateTree", func() {
	It("returns the trimmed interior of a TEMPLATE_FILE_TREE tag", func() {
		text := "before <TEMPLATE_FILE_TREE>\nsrc/\n  main.py\n</TEMPLATE_FILE_TREE> after"
		tree, ok := extract.LocateTree(text)
		Expect(ok).To(BeTrue())
		Expect(tree).To(Equal("src/\n  main.py"))
	})

	It("prefers TEMPLATE_FILE_TREE over FILE_TREE", func() {
		text := "<FILE_TREE>second</FILE_TREE> <TEMPLATE_FILE_TREE>first</TEMPLATE_FILE_TREE>"
		tree, ok := extract.LocateTree(text)
		Expect(ok).To(BeTrue())
		Expect(tree).To(Equal("first"))
	})

	It("matches a CODEBASE tag with attributes", func() {
		text := `<CODEBASE root="/app">tree here</CODEBASE>`
		tree, ok := extract.LocateTree(text)
		Expect(ok).To(BeTrue())
		Expect(tree).To(Equal("tree here"))
	})

	It("reports absence when no convention matches", func() {
		_, ok := extract.LocateTree("nothing wrapped here")
		Expect(ok).To(BeFalse())
	})
})
