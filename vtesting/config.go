package vtesting

import (
	"testing"

	"github.com/stretchr/testify/require"
	"www.velocidex.com/golang/changelog/config"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
)

// A config suitable for tests: debug logging to memory only, UTC
// timestamps.
func GetTestConfig(t *testing.T) *config_proto.Config {
	config_obj := config.GetDefaultConfig()
	config_obj.Logging.Debug = true
	config_obj.ChangeLog.Timezone = "UTC"

	require.NoError(t, config.ValidateConfig(config_obj))

	return config_obj
}
