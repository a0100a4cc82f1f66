package adscan

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogLevel(t *testing.T) {
	defer SetLogger(nil)
	SetLogger(nil)

	require.NoError(t, SetLogLevel("debug"))
	lg, ok := GetLogger().(*defaultLogger)
	require.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, lg.Entry.Logger.GetLevel())

	assert.Error(t, SetLogLevel("loud"))
}

func TestSetLogLevelForeignLogger(t *testing.T) {
	defer SetLogger(nil)

	SetLogger(foreignLogger{GetLogger()})
	assert.Error(t, SetLogLevel("debug"))
}

func TestChildLogger(t *testing.T) {
	l, hook := test.NewNullLogger()
	child := NewLogger(logrus.NewEntry(l)).ChildLogger(map[string]interface{}{"addr": "a4:c1:38:e1:ea:50"})

	child.Warnf("malformed element length %v", 5)

	require.Len(t, hook.Entries, 1)
	e := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, e.Level)
	assert.Equal(t, "malformed element length 5", e.Message)
	assert.Equal(t, "a4:c1:38:e1:ea:50", e.Data["addr"])
}

func TestSetGetLogger(t *testing.T) {
	defer SetLogger(nil)

	l, hook := test.NewNullLogger()
	SetLogger(NewLogger(logrus.NewEntry(l)))
	GetLogger().Info("scan started")
	require.Len(t, hook.Entries, 1)

	SetLogger(nil)
	_, ok := GetLogger().(*defaultLogger)
	assert.True(t, ok)
}

type foreignLogger struct {
	Logger
}
