package process

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/wssim/mem/vm"
)

var _ = Describe("Registry", func() {
	var r *Registry

	BeforeEach(func() {
		r = NewRegistry(3, 2)
	})

	It("should assign sequential PIDs", func() {
		for i := 0; i < 3; i++ {
			p, err := r.Admit()

			Expect(err).NotTo(HaveOccurred())
			Expect(p.PID).To(Equal(vm.PID(i)))
			Expect(p.WorkingSet.IsEmpty()).To(BeTrue())
			Expect(p.WorkingSet.Limit()).To(Equal(2))
		}

		Expect(r.Len()).To(Equal(3))
		Expect(r.IsFull()).To(BeTrue())
	})

	It("should refuse admission at capacity", func() {
		for i := 0; i < 3; i++ {
			_, _ = r.Admit()
		}

		p, err := r.Admit()

		Expect(err).To(MatchError(vm.ErrAtCapacity))
		Expect(p).To(BeNil())
		Expect(r.Len()).To(Equal(3))
	})

	It("should get processes by PID", func() {
		admitted, _ := r.Admit()

		p, found := r.Get(0)
		Expect(found).To(BeTrue())
		Expect(p).To(BeIdenticalTo(admitted))

		_, found = r.Get(1)
		Expect(found).To(BeFalse())
	})

	It("should always pick the only process", func() {
		only, _ := r.Admit()

		for i := 0; i < 4; i++ {
			Expect(r.SelectEvictionVictim()).To(BeIdenticalTo(only))
		}
	})

	It("should visit every process once before repeating", func() {
		for i := 0; i < 3; i++ {
			_, _ = r.Admit()
		}

		seen := map[vm.PID]int{}
		var last vm.PID
		for i := 0; i < 3; i++ {
			v := r.SelectEvictionVictim()
			if i > 0 {
				Expect(v.PID).NotTo(Equal(last))
			}
			seen[v.PID]++
			last = v.PID
		}

		Expect(seen).To(HaveLen(3))
		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(0)))
	})

	It("should rotate over newly admitted processes", func() {
		_, _ = r.Admit()
		_, _ = r.Admit()

		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(0)))
		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(1)))

		_, _ = r.Admit()

		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(0)))
		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(1)))
		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(2)))
	})

	It("should count a process admitted mid-rotation when wrapping", func() {
		_, _ = r.Admit()
		_, _ = r.Admit()

		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(0)))

		_, _ = r.Admit()

		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(1)))
		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(2)))
		Expect(r.SelectEvictionVictim().PID).To(Equal(vm.PID(0)))
	})

	It("should panic without live processes", func() {
		Expect(func() { r.SelectEvictionVictim() }).To(Panic())
	})
})
