package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-r", "http://rpc"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-r", "http://rpc"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "several allowed flags keep order",
			args:         []string{"-r", "http://rpc", "-k", "key.json", "-other", "x"},
			allowedFlags: []string{"-k", "-r"},
			want:         []string{"-r", "http://rpc", "-k", "key.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "a.json", "-r", "x"}
		assert.Equal(t, "a.json", JsonConfigFlags())
	})

	t.Run("long flag with equals", func(t *testing.T) {
		os.Args = []string{"bin", "-config=b.json"}
		assert.Equal(t, "b.json", JsonConfigFlags())
	})

	t.Run("env fallback", func(t *testing.T) {
		os.Args = []string{"bin"}
		t.Setenv(ConfigEnvVar, "env.json")
		assert.Equal(t, "env.json", JsonConfigFlags())
	})

	t.Run("flag wins over env", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "flag.json"}
		t.Setenv(ConfigEnvVar, "env.json")
		assert.Equal(t, "flag.json", JsonConfigFlags())
	})

	t.Run("nothing given", func(t *testing.T) {
		os.Args = []string{"bin"}
		t.Setenv(ConfigEnvVar, "")
		assert.Equal(t, "", JsonConfigFlags())
	})
}
