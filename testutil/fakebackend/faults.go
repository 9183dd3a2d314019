package fakebackend

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tripcart/logger"
)

// Fault describes an injected failure. Status 0 only applies Delay.
type Fault struct {
	Status int
	// Body is sent as JSON; nil sends no body.
	Body any
	// Delay stalls the request before answering, or until the client goes away.
	Delay time.Duration
	// Times limits how often the fault fires; 0 means always.
	Times int
}

type faultSet struct {
	mu     sync.Mutex
	faults map[string]*faultState
}

type faultState struct {
	Fault
	fired int
}

func newFaultSet() *faultSet {
	return &faultSet{faults: make(map[string]*faultState)}
}

func routeKey(method, path string) string { return method + " " + path }

func (f *faultSet) add(method, path string, fault Fault) {
	f.mu.Lock()
	f.faults[routeKey(method, path)] = &faultState{Fault: fault}
	f.mu.Unlock()
}

func (f *faultSet) clear() {
	f.mu.Lock()
	f.faults = make(map[string]*faultState)
	f.mu.Unlock()
}

func (f *faultSet) take(method, path string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.faults[routeKey(method, path)]
	if !ok {
		return Fault{}, false
	}
	if st.Times > 0 && st.fired >= st.Times {
		return Fault{}, false
	}
	st.fired++
	return st.Fault, true
}

type requestLog struct {
	mu     sync.Mutex
	counts map[string]int
	rids   []string
}

func (l *requestLog) record(method, path, requestID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts == nil {
		l.counts = make(map[string]int)
	}
	l.counts[routeKey(method, path)]++
	if requestID != "" {
		l.rids = append(l.rids, requestID)
	}
}

func (l *requestLog) count(method, path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[routeKey(method, path)]
}

func (l *requestLog) ids() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.rids))
	copy(out, l.rids)
	return out
}

// observe counts requests and echoes the request id.
func (b *Backend) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		b.seen.record(c.Request.Method, c.Request.URL.Path, id)
		if id != "" {
			c.Header("X-Request-ID", id)
		}
		start := time.Now()
		c.Next()

		fields := logger.Fields(
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldStatus, c.Writer.Status(),
			logger.FieldRequestID, id,
		)
		fields = logger.MergeWithDuration(fields, time.Since(start))
		if c.Writer.Status() >= 500 {
			b.log.Warn("request completed", fields)
		} else {
			b.log.Debug("request completed", fields)
		}
	}
}

// injectFaults applies a matching Fault before the route handler runs.
func (b *Backend) injectFaults() gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := b.faults.take(c.Request.Method, c.Request.URL.Path)
		if !ok {
			c.Next()
			return
		}
		if f.Delay > 0 {
			select {
			case <-time.After(f.Delay):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if f.Status == 0 {
			c.Next()
			return
		}
		if f.Body == nil {
			c.AbortWithStatus(f.Status)
			return
		}
		c.AbortWithStatusJSON(f.Status, f.Body)
	}
}

func (b *Backend) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				b.log.Error("panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
					logger.FieldPath, c.Request.URL.Path,
				))
				abort(c, http.StatusInternalServerError, "Internal server error")
			}
		}()
		c.Next()
	}
}
