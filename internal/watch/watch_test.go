package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/uwsgicfg/internal/watch"
	"github.com/angeloszaimis/uwsgicfg/pkg/logger"
)

func TestWatch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Watch Suite")
}

var _ = Describe("File", func() {
	var (
		tempDir string
		path    string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "watch-test-*")
		Expect(err).NotTo(HaveOccurred())

		path = filepath.Join(tempDir, "uwsgi.ini")
		Expect(os.WriteFile(path, []byte("[uwsgi]\nhttp = :8080\n"), 0o644)).To(Succeed())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	It("should invoke the callback after the document changes", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int64
		done := make(chan error, 1)

		go func() {
			done <- watch.File(ctx, logger.New("error", "text"), path, 20*time.Millisecond, func() {
				calls.Add(1)
			})
		}()

		// Let the watcher register before touching the file.
		time.Sleep(100 * time.Millisecond)
		Expect(os.WriteFile(path, []byte("[uwsgi]\nhttp = :9090\n"), 0o644)).To(Succeed())

		Eventually(func() int64 { return calls.Load() }, "2s").Should(BeNumerically(">=", 1))

		cancel()
		Eventually(done, "2s").Should(Receive(BeNil()))
	})

	It("should ignore changes to sibling files", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int64
		done := make(chan error, 1)

		go func() {
			done <- watch.File(ctx, logger.New("error", "text"), path, 20*time.Millisecond, func() {
				calls.Add(1)
			})
		}()

		time.Sleep(100 * time.Millisecond)
		Expect(os.WriteFile(filepath.Join(tempDir, "other.ini"), []byte("x"), 0o644)).To(Succeed())

		Consistently(func() int64 { return calls.Load() }, "300ms").Should(BeZero())

		cancel()
		Eventually(done, "2s").Should(Receive(BeNil()))
	})

	It("should fail for a directory that does not exist", func() {
		err := watch.File(context.Background(), logger.New("error", "text"),
			filepath.Join(tempDir, "absent", "uwsgi.ini"), 0, func() {})
		Expect(err).To(HaveOccurred())
	})
})
