package modeling

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Arena", func() {
	var (
		arena *Arena
		owner EntityID
	)

	BeforeEach(func() {
		arena = NewArena()
		owner = arena.CreateEntity("E")
	})

	It("should create and look up ports", func() {
		id, err := arena.CreatePort(owner, "in", Input)
		Expect(err).NotTo(HaveOccurred())

		found, ok := arena.LookupPort(owner, "in")
		Expect(ok).To(BeTrue())
		Expect(found).To(Equal(id))

		port := arena.Port(id)
		Expect(port.Name).To(Equal("in"))
		Expect(port.Owner).To(Equal(owner))
		Expect(port.Flags).To(Equal(Input))
		Expect(port.Relation).To(Equal(NoRelation))
		Expect(arena.Entity(owner).Ports).To(Equal([]PortID{id}))
	})

	It("should reject duplicated port names", func() {
		_, err := arena.CreatePort(owner, "in", Input)
		Expect(err).NotTo(HaveOccurred())

		_, err = arena.CreatePort(owner, "in", Output)
		Expect(err).To(MatchError(ErrDuplicateName))

		var dup *DuplicateNameError
		Expect(errors.As(err, &dup)).To(BeTrue())
		Expect(dup.Entity).To(Equal("E"))
		Expect(dup.Kind).To(Equal("port"))
	})

	It("should allow the same port name on different entities", func() {
		other := arena.CreateEntity("F")

		_, err := arena.CreatePort(owner, "in", Input)
		Expect(err).NotTo(HaveOccurred())
		_, err = arena.CreatePort(other, "in", Input)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject duplicated relation names", func() {
		_, err := arena.CreateRelation("inRelation")
		Expect(err).NotTo(HaveOccurred())

		_, err = arena.CreateRelation("inRelation")
		Expect(err).To(MatchError(ErrDuplicateName))
	})

	It("should link ports idempotently", func() {
		port, _ := arena.CreatePort(owner, "in", Input)
		rel, _ := arena.CreateRelation("inRelation")

		Expect(arena.Link(port, rel)).To(Succeed())
		Expect(arena.Link(port, rel)).To(Succeed())

		Expect(arena.Relation(rel).Members).To(Equal([]PortID{port}))
		Expect(arena.Port(port).Relation).To(Equal(rel))
	})

	It("should not link a port to a second relation", func() {
		port, _ := arena.CreatePort(owner, "in", Input)
		rel1, _ := arena.CreateRelation("a")
		rel2, _ := arena.CreateRelation("b")

		Expect(arena.Link(port, rel1)).To(Succeed())
		Expect(arena.Link(port, rel2)).NotTo(Succeed())
	})

	It("should return copies of relation members", func() {
		port, _ := arena.CreatePort(owner, "in", Input)
		rel, _ := arena.CreateRelation("inRelation")
		Expect(arena.Link(port, rel)).To(Succeed())

		snapshot := arena.Relation(rel)
		snapshot.Members[0] = 42

		Expect(arena.Relation(rel).Members).To(Equal([]PortID{port}))
	})

	It("should panic on unknown IDs", func() {
		Expect(func() { arena.Entity(7) }).To(Panic())
		Expect(func() { arena.Port(7) }).To(Panic())
		Expect(func() { arena.Relation(7) }).To(Panic())
	})

	It("should bump the version after every exclusive scope", func() {
		Expect(arena.Version()).To(Equal(uint64(0)))

		Expect(arena.Exclusive(func() error { return nil })).To(Succeed())
		failure := errors.New("failed")
		Expect(arena.Exclusive(func() error { return failure })).
			To(MatchError(failure))

		Expect(arena.Version()).To(Equal(uint64(2)))
	})

	It("should allow concurrent views", func() {
		done := make(chan struct{})

		arena.View(func() {
			go func() {
				arena.View(func() {})
				close(done)
			}()

			Eventually(done).Should(BeClosed())
		})
	})
})
