package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFTPURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{
			name:     "default port",
			url:      "ftp://ftp2.census.gov/geo/tiger/counties.zip",
			wantHost: "ftp2.census.gov:21",
			wantPath: "/geo/tiger/counties.zip",
		},
		{
			name:     "explicit port",
			url:      "ftp://example.com:2121/data/file.shp",
			wantHost: "example.com:2121",
			wantPath: "/data/file.shp",
		},
		{
			name:    "wrong scheme",
			url:     "https://example.com/file.zip",
			wantErr: true,
		},
		{
			name:    "empty path",
			url:     "ftp://example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}
