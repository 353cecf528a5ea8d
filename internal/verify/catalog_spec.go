package verify

import (
	"context"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"gps/internal/scenario"
)

var _ = ginkgo.Describe("Catalog", func() {
	ginkgo.It("verifies every embedded scenario against its ground truth", func() {
		names := scenario.List()
		gomega.Expect(names).NotTo(gomega.BeEmpty(), "scenario catalog should not be empty")

		results := Run(context.Background(), nil, 4)
		gomega.Expect(results).To(gomega.HaveLen(len(names)))

		for _, r := range results {
			gomega.Expect(r.Err).NotTo(gomega.HaveOccurred(), "scenario %q", r.Scenario)
			gomega.Expect(r.Mismatch).To(gomega.BeEmpty(), "scenario %q", r.Scenario)
		}
		gomega.Expect(AllPassed(results)).To(gomega.BeTrue())
	})

	ginkgo.It("solves the canonical school run end to end", func() {
		res := runOne(context.Background(), "school-run")
		gomega.Expect(res.Err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Plan).To(gomega.Equal([]string{
			"look-up-number",
			"telephone-shop",
			"tell-shop-problem",
			"give-shop-money",
			"shop-installs-battery",
			"drive-son-to-school",
		}))
	})

	ginkgo.It("reports unsolvable scenarios without a plan", func() {
		res := runOne(context.Background(), "missing-phone-book")
		gomega.Expect(res.Err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Unsolvable).To(gomega.BeTrue())
		gomega.Expect(res.Plan).To(gomega.BeEmpty())
		gomega.Expect(res.Passed()).To(gomega.BeTrue())
	})
})
