package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core"
)

func newTestLogger(buf *bytes.Buffer) *RollbarLogger {
	l := NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "TEST", Debug: true})
	l.Enable(false)
	return l
}

func TestRollbarLogger_prepare(t *testing.T) {
	l := newTestLogger(new(bytes.Buffer))
	err := errors.New("boom")
	extras := map[string]interface{}{"evaluation": 3}

	got := l.prepare("saving grade", []interface{}{
		err,
		core.Person{ID: "7", Username: "profe"},
		extras,
		core.Person{ID: "8"},
	})
	assert.Equal(t, []interface{}{"saving grade", err, extras}, got)
}

func TestRollbarLogger_print(t *testing.T) {
	buf := new(bytes.Buffer)
	l := newTestLogger(buf)

	l.Info("grades recorded", map[string]interface{}{"count": 2}, core.Person{ID: "7"})
	assert.Equal(t, "grades recorded\nmap[count:2]\n{ID:7 Username: Email:}\n", buf.String())
}
