package sim

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

type namedDomain struct {
	*HookableBase
}

func (namedDomain) Name() string {
	return "Domain"
}

var _ = Describe("LogHook", func() {
	var (
		buf    *bytes.Buffer
		hook   *LogHook
		domain namedDomain
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		hook = NewLogHook(zerolog.New(buf)).WithLevel(zerolog.InfoLevel)
		domain = namedDomain{HookableBase: NewHookableBase()}
	})

	It("should write a structured entry", func() {
		hook.Func(HookCtx{
			Domain: domain,
			Pos:    HookPosBeforeEvent,
			Item:   "x",
		})

		entry := map[string]any{}
		Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
		Expect(entry["pos"]).To(Equal("BeforeEvent"))
		Expect(entry["domain"]).To(Equal("Domain"))
		Expect(entry["item"]).To(Equal("x"))
		Expect(entry["level"]).To(Equal("info"))
	})

	It("should skip positions that are filtered out", func() {
		hook.OnlyAt(HookPosAfterEvent)

		hook.Func(HookCtx{Domain: domain, Pos: HookPosBeforeEvent})

		Expect(buf.Len()).To(Equal(0))
	})
})
