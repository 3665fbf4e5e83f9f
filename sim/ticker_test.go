package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Ticking Component", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockEngine
		ticker   *MockTicker
		tc       *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		ticker = NewMockTicker(mockCtrl)
		tc = NewTickingComponent("TC", engine, 1, ticker)

		engine.EXPECT().CurrentTime().Return(VTimeInSec(10)).AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should have a name", func() {
		Expect(tc.Name()).To(Equal("TC"))
	})

	It("should schedule a tick in the current cycle", func() {
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.Time()).To(Equal(VTimeInSec(10)))
				Expect(e.Handler()).To(BeIdenticalTo(tc))
			})

		tc.TickNow()
	})

	It("should tick when the ticker make progress in a tick", func() {
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.Time()).To(Equal(VTimeInSec(11)))
			})
		ticker.EXPECT().Tick().Return(true, nil)

		err := tc.Handle(MakeTickEvent(tc, 10))

		Expect(err).NotTo(HaveOccurred())
	})

	It("should not tick again if no progress is made", func() {
		ticker.EXPECT().Tick().Return(false, nil)

		err := tc.Handle(MakeTickEvent(tc, 10))

		Expect(err).NotTo(HaveOccurred())
	})

	It("should return the error from the ticker", func() {
		tickErr := errors.New("tick failed")
		ticker.EXPECT().Tick().Return(true, tickErr)

		err := tc.Handle(MakeTickEvent(tc, 10))

		Expect(err).To(MatchError(tickErr))
	})

	It("should move a tick between edges to the next edge", func() {
		off := NewMockEngine(mockCtrl)
		off.EXPECT().CurrentTime().Return(VTimeInSec(10.4)).AnyTimes()
		off.EXPECT().Schedule(gomock.Any()).Do(func(e Event) {
			Expect(e.Time()).To(BeNumerically("~", 11, 1e-12))
		})

		NewTickingComponent("Off", off, 1, ticker).TickNow()
	})

	It("should not tick if there is another tick scheduled in the future", func() {
		engine.EXPECT().Schedule(gomock.Any()).Times(1)

		tc.TickLater()
		tc.TickLater()
	})
})
