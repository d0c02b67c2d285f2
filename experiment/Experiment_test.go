package experiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samuelfneumann/mazevi/agent/dp/valueiteration"
	"github.com/samuelfneumann/mazevi/environment/envconfig"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(filename, []byte(data), 0o644))
	return filename
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, `{"episodes": 4}`))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Episodes = 4
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config (-want +have):\n%s", diff)
	}
	if c.EnvConf.Goal == nil || *c.EnvConf.Goal != envconfig.DefaultGoal {
		t.Errorf("default layout should keep the default goal, have %v",
			c.EnvConf.Goal)
	}
}

func TestLoadConfigCustomLayout(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, `{
		"frame_delay": "10ms",
		"seed": 9,
		"environment": {
			"layout": ["XXXX", "XP X", "XXXX"],
			"episode_cutoff": 50
		},
		"agent": {"gamma": 0.9, "theta": 0.001, "max_sweeps": 10}
	}`))
	require.NoError(t, err)

	if c.EnvConf.Goal != nil {
		t.Errorf("custom layout should not inherit the default goal, have %v",
			*c.EnvConf.Goal)
	}
	if c.Seed != 9 || c.EnvConf.EpisodeCutoff != 50 {
		t.Errorf("config fields not decoded: %+v", c)
	}
	want := valueiteration.Config{Gamma: 0.9, Theta: 0.001, MaxSweeps: 10}
	if c.AgentConf != want {
		t.Errorf("agent config: want %+v have %+v", want, c.AgentConf)
	}
	if c.EnvConf.Discount != envconfig.Default().Discount {
		t.Errorf("discount should keep its default, have %v",
			c.EnvConf.Discount)
	}

	d, err := c.frameDelay()
	require.NoError(t, err)
	if d.Milliseconds() != 10 {
		t.Errorf("frame delay: want 10ms have %v", d)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `{"episodes": `))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `{"agent": {"gamma": 0}}`))
	require.ErrorIs(t, err, valueiteration.ErrConfig)

	_, err = LoadConfig(writeConfig(t, `{"frame_delay": "soon"}`))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `{"episodes": -1}`))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSeed, "17")
	t.Setenv(EnvGamma, "0.5")
	t.Setenv(EnvTheta, "0.01")

	c, err := ApplyEnv(DefaultConfig())
	require.NoError(t, err)
	if c.Seed != 17 || c.AgentConf.Gamma != 0.5 || c.AgentConf.Theta != 0.01 {
		t.Errorf("overrides not applied: %+v", c)
	}

	t.Setenv(EnvGamma, "2")
	_, err = ApplyEnv(DefaultConfig())
	require.ErrorIs(t, err, valueiteration.ErrConfig)

	t.Setenv(EnvSeed, "-3")
	_, err = ApplyEnv(DefaultConfig())
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	t.Setenv(EnvConfig, "")
	if have := ConfigFile("a.json"); have != "a.json" {
		t.Errorf("want a.json have %v", have)
	}

	t.Setenv(EnvConfig, "b.json")
	if have := ConfigFile("a.json"); have != "b.json" {
		t.Errorf("want b.json have %v", have)
	}
}

func TestLoadEnv(t *testing.T) {
	filename := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(filename, []byte(EnvTheta+"=0.125\n"),
		0o644))

	// godotenv does not override variables that are already set
	t.Setenv(EnvTheta, "")
	os.Unsetenv(EnvTheta)
	LoadEnv(filename)

	c, err := ApplyEnv(DefaultConfig())
	require.NoError(t, err)
	if c.AgentConf.Theta != 0.125 {
		t.Errorf("theta: want 0.125 have %v", c.AgentConf.Theta)
	}
}
