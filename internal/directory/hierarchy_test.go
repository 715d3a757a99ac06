package directory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/team-directory/internal/directory"
)

func ref(id string) *string { return &id }

var _ = Describe("Hierarchy", func() {
	// chain: worker -> lead -> director, plus one detached user
	var dir *directory.Directory

	BeforeEach(func() {
		director := makeUser("director", "Dana Director", directory.DeptEngineering, directory.RoleAdmin)
		lead := makeUser("lead", "Lee Lead", directory.DeptEngineering, directory.RoleTeamLead)
		lead.ReportsTo = ref("director")
		worker := makeUser("worker", "Wes Worker", directory.DeptEngineering, directory.RoleDeveloper)
		worker.ReportsTo = ref("lead")
		loner := makeUser("loner", "Lou Loner", directory.DeptDesign, directory.RoleDesigner)

		dir = directory.NewDirectory([]*directory.User{director, lead, worker, loner})
	})

	Describe("WouldCycle", func() {
		It("always rejects self-assignment", func() {
			Expect(dir.WouldCycle("worker", "worker")).To(BeTrue())
		})

		It("rejects assigning a descendant as superior", func() {
			Expect(dir.WouldCycle("director", "worker")).To(BeTrue())
			Expect(dir.WouldCycle("director", "lead")).To(BeTrue())
			Expect(dir.WouldCycle("lead", "worker")).To(BeTrue())
		})

		It("accepts any non-descendant target", func() {
			Expect(dir.WouldCycle("worker", "director")).To(BeFalse())
			Expect(dir.WouldCycle("loner", "worker")).To(BeFalse())
			Expect(dir.WouldCycle("worker", "loner")).To(BeFalse())
		})

		It("terminates on corrupt data containing a pre-existing cycle", func() {
			a := makeUser("a", "A", directory.DeptEngineering, directory.RoleDeveloper)
			b := makeUser("b", "B", directory.DeptEngineering, directory.RoleDeveloper)
			a.ReportsTo = ref("b")
			b.ReportsTo = ref("a")
			corrupt := directory.NewDirectory([]*directory.User{a, b})

			// not provably a cycle for an unrelated user; must
			// return within the user-count bound, not hang
			Expect(corrupt.WouldCycle("c", "a")).To(BeFalse())
		})
	})

	Describe("SuperiorChain", func() {
		It("returns superiors nearest first", func() {
			chain := dir.SuperiorChain("worker")
			Expect(chain).To(HaveLen(2))
			Expect(chain[0].ID).To(Equal("lead"))
			Expect(chain[1].ID).To(Equal("director"))
		})

		It("is empty for a user with no superior", func() {
			Expect(dir.SuperiorChain("director")).To(BeEmpty())
			Expect(dir.SuperiorChain("loner")).To(BeEmpty())
		})

		It("is empty for an unknown user", func() {
			Expect(dir.SuperiorChain("ghost")).To(BeEmpty())
		})

		It("stops at a dangling reference", func() {
			orphan := makeUser("orphan", "Orphan", directory.DeptEngineering, directory.RoleDeveloper)
			orphan.ReportsTo = ref("deleted-boss")
			d := directory.NewDirectory([]*directory.User{orphan})
			Expect(d.SuperiorChain("orphan")).To(BeEmpty())
		})
	})
})
