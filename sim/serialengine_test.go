package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	mockEvent := func(t VTimeInSec, h Handler) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		evt.EXPECT().Handler().Return(h).AnyTimes()

		return evt
	}

	It("should schedule events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := mockEvent(4.0, handler1)
		evt2 := mockEvent(2.0, handler2)
		evt3 := mockEvent(3.0, handler1)
		evt4 := mockEvent(5.0, handler1)

		handleEvt2 := handler2.EXPECT().Handle(evt2).DoAndReturn(
			func(e Event) error {
				engine.Schedule(evt3)
				engine.Schedule(evt4)

				return nil
			})
		handleEvt3 := handler1.EXPECT().Handle(evt3).
			Return(nil).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).
			Return(nil).After(handleEvt3)
		handler1.EXPECT().Handle(evt4).Return(nil).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5.0)))
	})

	It("should handle same-time events in scheduling order", func() {
		var order []string

		record := func(name string) Handler {
			return HandlerFunc(func(Event) error {
				order = append(order, name)
				return nil
			})
		}

		engine.Schedule(MakeTickEvent(record("A"), 2))
		engine.Schedule(MakeTickEvent(record("B"), 1))
		engine.Schedule(MakeTickEvent(record("C"), 2))

		Expect(engine.Run()).To(Succeed())
		Expect(order).To(Equal([]string{"B", "A", "C"}))
	})

	It("should call end handlers with the final time", func() {
		var end VTimeInSec

		engine.RegisterSimulationEndHandler(
			SimulationEndFunc(func(now VTimeInSec) { end = now }))
		engine.Schedule(MakeTickEvent(HandlerFunc(func(Event) error {
			return nil
		}), 7))

		Expect(engine.Run()).To(Succeed())
		engine.Finished()

		Expect(end).To(Equal(VTimeInSec(7)))
	})

	It("should stop at the first handler error", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEvent(1.0, handler)
		evt2 := mockEvent(2.0, handler)
		handleErr := errors.New("handler failed")

		handler.EXPECT().Handle(evt1).Return(handleErr)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(MatchError(handleErr))
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(1.0)))
	})

	It("should invoke hooks around each event", func() {
		handler := NewMockHandler(mockCtrl)
		hook := NewMockHook(mockCtrl)
		evt := mockEvent(1.0, handler)

		engine.AcceptHook(hook)

		before := hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosBeforeEvent))
			Expect(ctx.Item).To(BeIdenticalTo(evt))
		})
		handler.EXPECT().Handle(evt).Return(nil).After(before)
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosAfterEvent))
		}).After(before)

		engine.Schedule(evt)

		Expect(engine.Run()).To(Succeed())
	})

	It("should panic when scheduling into the past", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEvent(3.0, handler)
		past := mockEvent(1.0, handler)

		handler.EXPECT().Handle(evt).DoAndReturn(func(e Event) error {
			Expect(func() { engine.Schedule(past) }).To(Panic())
			return nil
		})

		engine.Schedule(evt)

		Expect(engine.Run()).To(Succeed())
	})
})
