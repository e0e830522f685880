package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[Interface]\n"), 0600))
	}
}

func names(configs []Configuration) []string {
	out := make([]string, 0, len(configs))
	for _, c := range configs {
		out = append(out, c.Name())
	}
	return out
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "us-02.conf", "us-01.conf", "ch-01.conf", "us-03.txt", "de-01.conf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "us-dir.conf"), 0700))

	tests := []struct {
		name       string
		filters    []string
		wantNames  []string
		wantMisses []string
	}{
		{
			name:      "single filter sorted",
			filters:   []string{"us"},
			wantNames: []string{"us-01.conf", "us-02.conf"},
		},
		{
			name:      "filter order preserved",
			filters:   []string{"ch", "us"},
			wantNames: []string{"ch-01.conf", "us-01.conf", "us-02.conf"},
		},
		{
			name:       "miss reported",
			filters:    []string{"fr", "de"},
			wantNames:  []string{"de-01.conf"},
			wantMisses: []string{"fr"},
		},
		{
			name:       "all filters miss",
			filters:    []string{"jp", "br"},
			wantMisses: []string{"jp", "br"},
		},
		{
			name:      "overlapping filters deduplicated",
			filters:   []string{"us", "us-01"},
			wantNames: []string{"us-01.conf", "us-02.conf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configs, misses, err := Find(dir, tt.filters, ".conf")
			require.NoError(t, err)
			if tt.wantNames == nil {
				assert.Empty(t, configs)
			} else {
				assert.Equal(t, tt.wantNames, names(configs))
			}
			assert.Equal(t, tt.wantMisses, misses)
		})
	}
}

func TestFind_PathsAreJoined(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "ch-01.conf")

	configs, _, err := Find(dir, []string{"ch"}, ".conf")
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, filepath.Join(dir, "ch-01.conf"), configs[0].Path)
	assert.Equal(t, "ch-01.conf", configs[0].String())
}

func TestFind_UnreadableDirectory(t *testing.T) {
	_, _, err := Find(filepath.Join(t.TempDir(), "missing"), []string{"us"}, ".conf")
	assert.Error(t, err)
}
