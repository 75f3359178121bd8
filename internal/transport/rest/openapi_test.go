package rest_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Transport Suite")
}

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents the session endpoints", func() {
		Expect(doc.Paths.Find("/auth/login")).NotTo(BeNil())
		Expect(doc.Paths.Find("/auth/logout")).NotTo(BeNil())
		Expect(doc.Paths.Find("/auth/csrf")).NotTo(BeNil())
	})

	It("documents every workshop resource", func() {
		for _, path := range []string{
			"/garages",
			"/customers",
			"/vehicles",
			"/job-cards",
			"/job-cards/{id}/status",
			"/job-cards/{id}/items",
			"/parts",
			"/parts/{id}/receive",
			"/invoices",
			"/invoices/{id}/payments",
			"/gate-passes",
			"/gate-passes/{id}/exit",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})
})
