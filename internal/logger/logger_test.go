package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitJSONLogger_levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{level: "", wantInfo: true},
		{level: "debug", wantDebug: true, wantInfo: true},
		{level: "warn"},
		{level: "chatty", wantInfo: true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := InitJSONLogger("wealthwise", tt.level)
			require.NoError(t, err)
			defer log.Sync()
			assert.Equal(t, tt.wantDebug, log.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tt.wantInfo, log.Core().Enabled(zap.InfoLevel))
			assert.True(t, log.Core().Enabled(zap.ErrorLevel))
		})
	}
}
