package httpserver_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/uwsgicfg/internal/httpserver"
)

func TestHttpserver(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Httpserver Suite")
}

var _ = Describe("Server", func() {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	Describe("New", func() {
		It("should create a server for a valid address", func() {
			srv, err := httpserver.New("127.0.0.1:0", handler, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("should accept a bare port", func() {
			srv, err := httpserver.New(":0", handler, 30*time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("should reject an address without a port", func() {
			_, err := httpserver.New("127.0.0.1", handler, 0)
			Expect(err).To(HaveOccurred())
		})

		It("should reject an invalid host", func() {
			_, err := httpserver.New("not a host:8080", handler, 0)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Start and Shutdown", func() {
		It("should shut down cleanly", func() {
			srv, err := httpserver.New("127.0.0.1:0", handler, 0)
			Expect(err).NotTo(HaveOccurred())

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			// Give the listener a moment to come up before tearing it down.
			time.Sleep(50 * time.Millisecond)

			Expect(srv.Shutdown(context.Background())).To(Succeed())
			Eventually(errCh).Should(Receive(BeNil()))
		})
	})
})
