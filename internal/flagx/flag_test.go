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
			name:         "separate value",
			args:         []string{"-c", "conf.json", "-u", "https://db.example"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "equals form",
			args:         []string{"-config=alt.json", "-b", "rest"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-e"},
			allowedFlags: []string{"-e"},
			want:         []string{"-e"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "several allowed flags keep order",
			args:         []string{"-b", "postgres", "-d", "postgres://x", "-l", "debug"},
			allowedFlags: []string{"-d", "-b"},
			want:         []string{"-b", "postgres", "-d", "postgres://x"},
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

	os.Args = []string{"testbin", "-c", "/path/short.json"}
	assert.Equal(t, "/path/short.json", JsonConfigFlags())

	os.Args = []string{"testbin", "-config", "/path/long.json", "-b", "memory"}
	assert.Equal(t, "/path/long.json", JsonConfigFlags())

	os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
	assert.Equal(t, "/path/2.json", JsonConfigFlags())

	os.Args = []string{"testbin", "-x", "1"}
	assert.Empty(t, JsonConfigFlags())
}

func TestEnvFileFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-env", "backend/.env", "-c", "cfg.json"}
	assert.Equal(t, "backend/.env", EnvFileFlags())

	os.Args = []string{"testbin", "-e=prod.env"}
	assert.Equal(t, "prod.env", EnvFileFlags())

	os.Args = []string{"testbin"}
	assert.Empty(t, EnvFileFlags())
}
