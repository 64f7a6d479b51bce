package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestDefaultLog(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var log Logger = (&DefaultLog{Entry: logrus.NewEntry(l)}).WithFields(map[string]any{"component": "test"})
	for _, tt := range []struct {
		log  func()
		want string
	}{
		{func() { log.Error("error") }, "level=error msg=error component=test"},
		{func() { log.Errorf("errorf: %s", "foo") }, `level=error msg="errorf: foo" component=test`},
		{func() { log.Warn("warn") }, "level=warning msg=warn component=test"},
		{func() { log.Warnf("warnf: %s", "foo") }, `level=warning msg="warnf: foo" component=test`},
		{func() { log.Info("info") }, "level=info msg=info component=test"},
		{func() { log.Infof("infof: %s", "foo") }, `level=info msg="infof: foo" component=test`},
		{func() { log.Debug("debug") }, "level=debug msg=debug component=test"},
		{func() { log.Debugf("debugf: %s", "foo") }, `level=debug msg="debugf: foo" component=test`},
	} {
		buf.Reset()
		tt.log()
		assert.Equal(t, tt.want, strings.TrimSpace(buf.String()))
	}
}
