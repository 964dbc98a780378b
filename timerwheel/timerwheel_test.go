/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package timerwheel_test

import (
	"math"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/sabouaram/goaio/timerwheel"
)

var _ = Describe("Timer Wheel Scheduling", func() {
	var w Wheel

	BeforeEach(func() {
		w = HighPrecision(16)
	})

	AfterEach(func() {
		if w != nil {
			w.Exit()
		}
	})

	Context("empty wheel", func() {
		It("should report an infinite delay", func() {
			Expect(w.Delay()).To(Equal(InfiniteDelay))
			Expect(w.Top()).To(Equal(int64(math.MaxInt64)))
			Expect(w.Len()).To(BeZero())
		})

		It("should spak without firing anything", func() {
			Expect(w.Spak()).To(BeTrue())
		})
	})

	Context("one shot tasks", func() {
		It("should fire a due task exactly once", func() {
			var cnt atomic.Int32

			t := w.TaskInit(10*time.Millisecond, 0, func(killed bool) {
				Expect(killed).To(BeFalse())
				cnt.Add(1)
			})
			Expect(t).ToNot(BeNil())
			Expect(w.Len()).To(Equal(1))

			Eventually(func() int32 {
				w.Spak()
				return cnt.Load()
			}, time.Second, 5*time.Millisecond).Should(Equal(int32(1)))

			Expect(w.Len()).To(BeZero())

			w.Spak()
			Expect(cnt.Load()).To(Equal(int32(1)))
		})

		It("should not fire a task before its deadline", func() {
			var cnt atomic.Int32

			w.TaskInit(time.Hour, 0, func(killed bool) {
				cnt.Add(1)
			})

			w.Spak()
			Expect(cnt.Load()).To(BeZero())
			Expect(w.Delay()).To(BeNumerically(">", time.Minute))
		})

		It("should reject a nil callback", func() {
			Expect(w.TaskInit(time.Millisecond, 0, nil)).To(BeNil())
		})
	})

	Context("periodic tasks", func() {
		It("should reschedule at now plus period", func() {
			var cnt atomic.Int32

			w.TaskInit(5*time.Millisecond, 5*time.Millisecond, func(killed bool) {
				if !killed {
					cnt.Add(1)
				}
			})

			Eventually(func() int32 {
				w.Spak()
				return cnt.Load()
			}, time.Second, 2*time.Millisecond).Should(BeNumerically(">=", int32(3)))

			Expect(w.Len()).To(Equal(1))
		})
	})

	Context("kill", func() {
		It("should deliver the killed flag on the next spak", func() {
			var (
				cnt    atomic.Int32
				killed atomic.Bool
			)

			t := w.TaskInit(time.Hour, 0, func(k bool) {
				killed.Store(k)
				cnt.Add(1)
			})

			w.Kill(t)
			w.Spak()

			Expect(cnt.Load()).To(Equal(int32(1)))
			Expect(killed.Load()).To(BeTrue())
			Expect(w.Len()).To(BeZero())
		})

		It("should remove a task silently on TaskExit", func() {
			var cnt atomic.Int32

			t := w.TaskInit(time.Millisecond, 0, func(k bool) {
				cnt.Add(1)
			})

			w.TaskExit(t)
			time.Sleep(5 * time.Millisecond)
			w.Spak()

			Expect(cnt.Load()).To(BeZero())
		})
	})

	Context("fire and forget", func() {
		It("should run a posted task", func() {
			var cnt atomic.Int32

			w.Post(time.Millisecond, func(k bool) {
				cnt.Add(1)
			})

			Eventually(func() int32 {
				w.Spak()
				return cnt.Load()
			}, time.Second, 2*time.Millisecond).Should(Equal(int32(1)))
		})

		It("should run a task posted at an absolute time", func() {
			var cnt atomic.Int32

			w.PostAt(time.Now().Add(5*time.Millisecond), func(k bool) {
				cnt.Add(1)
			})

			Eventually(func() int32 {
				w.Spak()
				return cnt.Load()
			}, time.Second, 2*time.Millisecond).Should(Equal(int32(1)))
		})
	})
})

var _ = Describe("Timer Wheel Precision", func() {
	It("should bucket near deadlines on a low precision wheel", func() {
		w := New(8, 100*time.Millisecond, false)
		defer w.Exit()

		w.TaskInit(10*time.Millisecond, 0, func(k bool) {})
		w.TaskInit(60*time.Millisecond, 0, func(k bool) {})

		// both deadlines round up to the same slot
		top := w.Top()
		Expect(top % 100).To(BeZero())
	})

	It("should only advance the cached clock on spak", func() {
		w := New(8, time.Millisecond, true)
		defer w.Exit()

		c1 := w.Clock()
		time.Sleep(20 * time.Millisecond)
		Expect(w.Clock()).To(Equal(c1))

		w.Spak()
		Expect(w.Clock()).To(BeNumerically(">", c1))
	})
})

var _ = Describe("Timer Wheel Exit", func() {
	It("should kill pending tasks and poison the wheel", func() {
		w := HighPrecision(4)

		var killed atomic.Bool

		w.TaskInit(time.Hour, 0, func(k bool) {
			killed.Store(k)
		})

		w.Exit()

		Expect(killed.Load()).To(BeTrue())
		Expect(w.Spak()).To(BeFalse())
		Expect(w.TaskInit(time.Millisecond, 0, func(k bool) {})).To(BeNil())
	})
})
