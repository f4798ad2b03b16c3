package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCommands(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Main Suite")
}

var _ = Describe("uwsgicfg", func() {
	var (
		tempDir string
		out     *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "cmd-test-*")
		Expect(err).NotTo(HaveOccurred())

		validateStrict = false
		validateWatch = false
		renderFormat = "ini"
		renderOut = ""
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	execute := func(args ...string) error {
		out = &bytes.Buffer{}
		rootCmd.SetOut(out)
		rootCmd.SetErr(out)
		rootCmd.SetArgs(args)
		return rootCmd.Execute()
	}

	writeDocument := func(name, content string) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	const validDocument = `[uwsgi]
http = 127.0.0.1:5900
processes = 4
harakiri = 60
max-requests = 5000
`

	Describe("validate", func() {
		It("should accept a valid document", func() {
			path := writeDocument("uwsgi.ini", validDocument)

			Expect(execute("validate", path)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("valid"))
			Expect(out.String()).To(ContainSubstring("4 workers"))
		})

		It("should reject a document without an endpoint", func() {
			path := writeDocument("uwsgi.ini", "[uwsgi]\nprocesses = 4\n")

			Expect(execute("validate", path)).To(HaveOccurred())
		})

		It("should tolerate unknown keys by default", func() {
			path := writeDocument("uwsgi.ini", "[uwsgi]\nhttp = :8080\nplugin = python3\n")

			Expect(execute("validate", path)).To(Succeed())
		})

		It("should reject unknown keys under --strict", func() {
			path := writeDocument("uwsgi.ini", "[uwsgi]\nhttp = :8080\nplugin = python3\n")

			err := execute("validate", "--strict", path)
			Expect(err).To(MatchError(ContainSubstring("plugin")))
		})

		It("should fail for a missing file", func() {
			Expect(execute("validate", filepath.Join(tempDir, "absent.ini"))).To(HaveOccurred())
		})
	})

	Describe("render", func() {
		It("should emit a canonical document by default", func() {
			path := writeDocument("uwsgi.ini", validDocument)

			Expect(execute("render", path)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("[uwsgi]"))
			Expect(out.String()).To(ContainSubstring("harakiri"))
		})

		It("should write the document to --out", func() {
			path := writeDocument("uwsgi.ini", validDocument)
			outPath := filepath.Join(tempDir, "canonical.ini")

			Expect(execute("render", "--out", outPath, path)).To(Succeed())

			data, err := os.ReadFile(outPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("[uwsgi]"))
		})

		It("should emit the equivalent command line", func() {
			path := writeDocument("uwsgi.ini", validDocument)

			Expect(execute("render", "--format", "args", path)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("--http 127.0.0.1:5900"))
			Expect(out.String()).To(ContainSubstring("--processes 4"))
		})

		It("should reject an unknown format", func() {
			path := writeDocument("uwsgi.ini", validDocument)

			Expect(execute("render", "--format", "toml", path)).To(HaveOccurred())
		})
	})

	Describe("diff", func() {
		It("should report equivalent documents", func() {
			a := writeDocument("a.ini", validDocument)
			b := writeDocument("b.ini", validDocument)

			Expect(execute("diff", a, b)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("equivalent"))
		})

		It("should list differences and fail", func() {
			a := writeDocument("a.ini", "[uwsgi]\nprocesses = 4\n")
			b := writeDocument("b.ini", "[uwsgi]\nprocesses = 8\n")

			err := execute("diff", a, b)
			Expect(err).To(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("~ processes: 4 -> 8"))
		})
	})

	Describe("doctor", func() {
		It("should pass when the document references nothing on disk", func() {
			path := writeDocument("uwsgi.ini", validDocument)

			Expect(execute("doctor", path)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("[ok] http"))
		})

		It("should fail when a static-map target is missing", func() {
			path := writeDocument("uwsgi.ini",
				validDocument+"static-map = /static="+filepath.Join(tempDir, "absent")+"\n")

			Expect(execute("doctor", path)).To(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("[fail] static-map /static"))
		})
	})
})
