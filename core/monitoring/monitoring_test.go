package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordMonitor struct {
	errs    []error
	tags    []map[string]string
	flushed time.Duration
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recordMonitor) Recover()              {}
func (r *recordMonitor) Flush(d time.Duration) { r.flushed = d }

func TestGlobalMonitor(t *testing.T) {
	rec := &recordMonitor{}
	Init(rec)
	t.Cleanup(func() { Init(nil) })

	CaptureException(errors.New("boom"), map[string]string{"component": "allocation"})
	CaptureException(nil, nil)
	Flush(time.Second)

	assert.Len(t, rec.errs, 1)
	assert.Equal(t, "allocation", rec.tags[0]["component"])
	assert.Equal(t, time.Second, rec.flushed)

	Init(nil)
	CaptureException(errors.New("dropped"), nil)
	assert.Len(t, rec.errs, 1)
}
